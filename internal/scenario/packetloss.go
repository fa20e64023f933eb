package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firestore-probe/internal/logger"
	"firestore-probe/internal/metrics"
	"firestore-probe/internal/store"
)

// PacketLossConfig はパケットロステストの設定
type PacketLossConfig struct {
	Collection  string        // 書き込み先コレクション
	Count       int           // 送信するドキュメント数
	WriteDelay  time.Duration // 書き込み間の待機
	VerifyDelay time.Duration // 検証間の待機
	DeleteAfter bool          // 検証後に送信済みドキュメントを削除
}

// Validate は設定を検証する
func (c PacketLossConfig) Validate() error {
	if c.Collection == "" {
		return errors.New("collection must not be empty")
	}
	if c.Count < 0 {
		return errors.New("count must be non-negative")
	}
	if c.WriteDelay < 0 || c.VerifyDelay < 0 {
		return errors.New("delays must be non-negative")
	}
	return nil
}

// PacketLossResult はパケットロステストの結果
type PacketLossResult struct {
	Total       int // 送信予定数
	Sent        int // SDKが成功を返した数
	Verified    int // 再読込で存在確認できた数
	Interrupted bool
	Elapsed     time.Duration
}

// Loss はロス率（%）と、送信予定が1件以上あったかを返す
func (r *PacketLossResult) Loss() (float64, bool) {
	return metrics.Loss(r.Total, r.Verified)
}

// Report は結果をフォーマットして返す
func (r *PacketLossResult) Report() string {
	var b strings.Builder
	b.WriteString("\n--- Packet Loss Results (Firestore) ---\n")
	fmt.Fprintf(&b, "Total documents to send: %d\n", r.Total)
	fmt.Fprintf(&b, "Documents sent successfully (per SDK): %d\n", r.Sent)
	fmt.Fprintf(&b, "Documents verified in Firestore: %d\n", r.Verified)

	if loss, ok := r.Loss(); ok {
		fmt.Fprintf(&b, "Packet loss (Firestore): %.2f%%", loss)
	} else {
		b.WriteString("No documents were sent.")
	}
	return b.String()
}

// RunPacketLoss はパケットロステストを実行する
// 書き込みフェーズが終わるまで検証フェーズは開始しない
func RunPacketLoss(ctx context.Context, rc *RunContext, cfg PacketLossConfig) (*PacketLossResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid packet loss config: %w", err)
	}

	start := time.Now()
	rc.setState(StateRunning)

	_, _ = fmt.Fprintf(rc.Out, "Starting Firestore packet loss test with %d documents...\n", cfg.Count)

	ids := SendPackets(ctx, rc, cfg)

	_, _ = fmt.Fprintln(rc.Out, "\nVerifying documents in Firestore...")
	verified := VerifyPackets(ctx, rc, cfg, ids)

	if cfg.DeleteAfter {
		removePackets(ctx, rc, cfg, ids)
	}

	result := &PacketLossResult{
		Total:       cfg.Count,
		Sent:        len(ids),
		Verified:    verified,
		Interrupted: ctx.Err() != nil,
		Elapsed:     time.Since(start),
	}

	loss, _ := result.Loss()
	rc.setResult("loss_pct", loss)
	rc.finish(loss)

	logger.Info(TestPacketLoss, "Finished in %v (sent: %d, verified: %d)",
		result.Elapsed.Round(time.Millisecond), result.Sent, result.Verified)
	return result, nil
}

// SendPackets は cfg.Count 件を順番に書き込み、成功したIDを返す
func SendPackets(ctx context.Context, rc *RunContext, cfg PacketLossConfig) []string {
	rc.setPhase("write")

	ids := make([]string, 0, cfg.Count)
	for i := range cfg.Count {
		if ctx.Err() != nil {
			logger.Warn(TestPacketLoss, "Write phase interrupted after %d documents", i)
			break
		}

		seq := i + 1
		rec := store.Record{
			"sequence":                 seq,
			"message":                  fmt.Sprintf("Test document #%d", seq),
			store.FieldClientTimestamp: store.UnixSeconds(time.Now()),
		}

		out := rc.Exec.Write(ctx, cfg.Collection, rec, "")
		if !out.OK && ctx.Err() != nil {
			break
		}
		rc.record(out)
		if out.OK && out.ID != "" {
			ids = append(ids, out.ID)
		}

		sleep(ctx, cfg.WriteDelay)
	}
	return ids
}

// VerifyPackets は全IDを順番に再読込し、存在確認できた件数を返す
func VerifyPackets(ctx context.Context, rc *RunContext, cfg PacketLossConfig, ids []string) int {
	rc.setPhase("verify")

	verified := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			logger.Warn(TestPacketLoss, "Verify phase interrupted after %d documents", verified)
			break
		}
		if rc.Exec.ReadVerify(ctx, cfg.Collection, id) {
			verified++
			rc.Counters.RecordVerified()
		}
		sleep(ctx, cfg.VerifyDelay)
	}
	return verified
}

// removePackets は送信済みドキュメントを削除する
func removePackets(ctx context.Context, rc *RunContext, cfg PacketLossConfig, ids []string) {
	rc.setPhase("cleanup")

	deleted := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if rc.Exec.Delete(ctx, cfg.Collection, id) {
			deleted++
		}
	}
	logger.Info(TestPacketLoss, "Deleted %d of %d test documents", deleted, len(ids))
}
