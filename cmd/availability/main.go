// Package main is the entry point for the Firestore availability probe.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

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
		duration    = flag.Duration("duration", 0, "総実行時間 (例: 10m, 24h)")
		interval    = flag.Duration("interval", 0, "ハートビート間隔 (例: 30s)")
		report      = flag.Duration("report-interval", 0, "途中集計の表示間隔 (例: 1h)")
		showVersion = flag.Bool("version", false, "バージョンを表示")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `availability - Firestore availability probe

Sends a heartbeat document at a fixed interval and reports the share of
successful writes.

Usage:
  availability [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # 既定の設定（60秒間隔、24時間）で実行
  availability

  # インメモリストアで短時間の動作確認
  availability --dry-run --preset smoke

  # 状態サーバー付きで1時間実行
  availability --duration 1h --addr :9090
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("availability version %s\n", version)
		return
	}

	cfg, err := common.Load()
	if err != nil {
		logger.Error("", "設定エラー: %v", err)
		os.Exit(1)
	}

	testConfig, err := buildConfig(cfg, *duration, *interval, *report)
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
func buildConfig(cfg *config.FileConfig, duration, interval, report time.Duration) (scenario.AvailabilityConfig, error) {
	testConfig, err := cfg.ToAvailabilityConfig()
	if err != nil {
		return testConfig, err
	}

	if duration > 0 {
		testConfig.Duration = duration
	}
	if interval > 0 {
		testConfig.HeartbeatInterval = interval
	}
	if report > 0 {
		testConfig.ReportInterval = report
	}
	return testConfig, testConfig.Validate()
}

func run(cfg *config.FileConfig, testConfig scenario.AvailabilityConfig, flags *app.Flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := app.Setup(ctx, cfg, scenario.TestAvailability, flags)
	if err != nil {
		return err
	}
	defer env.Close()

	result, err := scenario.RunAvailability(ctx, env.Run, testConfig)
	if err != nil {
		return err
	}

	fmt.Println(result.Report())
	return nil
}
