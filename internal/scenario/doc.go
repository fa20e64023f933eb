// Package scenario は3種類の計測ドライバを提供する。
//
// ドライバはいずれも単一スレッドで動作し、probe.Executor を通じて
// ストアを操作し、結果を RunContext のカウンタに集計する。
//
// # ドライバ
//
// - RunAvailability: 一定間隔のハートビート書き込みで可用性を計測
// - RunPacketLoss: N件書き込み後に全件を再読込してロス率を計測
// - RunThroughput: 指定時間だけ遅延なしで書き込み、秒間件数を計測
//
// # プリセット
//
// - default: 長時間の標準計測（60秒間隔24時間、1000件、1000秒）
// - smoke: 数秒で終わる動作確認用
//
// # 使用例
//
//	exec := probe.New(s, scenario.TestPacketLoss)
//	rc := scenario.NewRunContext(exec)
//	result, err := scenario.RunPacketLoss(ctx, rc, scenario.DefaultPacketLoss())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Report())
package scenario
