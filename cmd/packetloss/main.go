// Package main is the entry point for the Firestore packet loss probe.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"firestore-probe/internal/app"
	"firestore-probe/internal/config"
	"firestore-probe/internal/logger"
	"firestore-probe/internal/scenario"
)

var (
	version = "dev"
)

func main() {
	common := app.RegisterFlags(flag.CommandLine)

	// フラグ定義
	var (
		count       = flag.Int("count", -1, "送信するドキュメント数 (既定: 1000)")
		deleteAfter = flag.Bool("delete-after", false, "検証後に送信したドキュメントを削除")
		showVersion = flag.Bool("version", false, "バージョンを表示")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `packetloss - Firestore packet loss probe

Writes N documents one by one, then reads every returned ID back and
reports the share that could not be verified.

Usage:
  packetloss [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # 既定の設定（1000件）で実行
  packetloss

  # 100件送信して検証後に削除
  packetloss --count 100 --delete-after

  # エミュレータに対して実行
  packetloss --emulator localhost:8080 --project demo
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("packetloss version %s\n", version)
		return
	}

	cfg, err := common.Load()
	if err != nil {
		logger.Error("", "設定エラー: %v", err)
		os.Exit(1)
	}

	testConfig, err := buildConfig(cfg, *count, *deleteAfter)
	if err != nil {
		logger.Error("", "設定エラー: %v", err)
		os.Exit(1)
	}

	if err := run(cfg, testConfig, common); err != nil {
		logger.Error("", "実行エラー: %v", err)
		os.Exit(1)
	}
}

// buildConfig は設定ファイルの値をフラグで上書きする
// count は負なら未指定として扱う
func buildConfig(cfg *config.FileConfig, count int, deleteAfter bool) (scenario.PacketLossConfig, error) {
	testConfig, err := cfg.ToPacketLossConfig()
	if err != nil {
		return testConfig, err
	}

	if count >= 0 {
		testConfig.Count = count
	}
	if deleteAfter {
		testConfig.DeleteAfter = true
	}
	return testConfig, testConfig.Validate()
}

func run(cfg *config.FileConfig, testConfig scenario.PacketLossConfig, flags *app.Flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := app.Setup(ctx, cfg, scenario.TestPacketLoss, flags)
	if err != nil {
		return err
	}
	defer env.Close()

	result, err := scenario.RunPacketLoss(ctx, env.Run, testConfig)
	if err != nil {
		return err
	}

	fmt.Println(result.Report())
	return nil
}
