// Package main is the entry point for the Firestore throughput probe.
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
		duration     = flag.Duration("duration", -1, "計測時間 (既定: 1000s)")
		cleanupLimit = flag.Int("cleanup-limit", -1, "事前に削除する残存ドキュメントの上限 (既定: 1000、0で削除しない)")
		showVersion  = flag.Bool("version", false, "バージョンを表示")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `throughput - Firestore throughput probe

Clears leftovers from the previous run, then writes with no delay for a
fixed duration and reports successful writes per second.

Usage:
  throughput [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # 既定の設定（1000秒）で実行
  throughput

  # 30秒だけ計測
  throughput --duration 30s

  # インメモリストアに障害を注入して確認（設定ファイルの fault で指定）
  throughput --dry-run --config faults.yaml
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("throughput version %s\n", version)
		return
	}

	cfg, err := common.Load()
	if err != nil {
		logger.Error("", "設定エラー: %v", err)
		os.Exit(1)
	}

	testConfig, err := buildConfig(cfg, *duration, *cleanupLimit)
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
// 負の値は未指定として扱う
func buildConfig(cfg *config.FileConfig, duration time.Duration, cleanupLimit int) (scenario.ThroughputConfig, error) {
	testConfig, err := cfg.ToThroughputConfig()
	if err != nil {
		return testConfig, err
	}

	if duration >= 0 {
		testConfig.Duration = duration
	}
	if cleanupLimit >= 0 {
		testConfig.CleanupLimit = cleanupLimit
	}
	return testConfig, testConfig.Validate()
}

func run(cfg *config.FileConfig, testConfig scenario.ThroughputConfig, flags *app.Flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := app.Setup(ctx, cfg, scenario.TestThroughput, flags)
	if err != nil {
		return err
	}
	defer env.Close()

	result, err := scenario.RunThroughput(ctx, env.Run, testConfig)
	if err != nil {
		return err
	}

	fmt.Println(result.Report())
	return nil
}
