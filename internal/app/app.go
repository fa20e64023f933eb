package app

import (
	"context"
	"fmt"

	"firestore-probe/internal/api"
	"firestore-probe/internal/chaos"
	"firestore-probe/internal/config"
	"firestore-probe/internal/events"
	"firestore-probe/internal/logger"
	"firestore-probe/internal/metrics"
	"firestore-probe/internal/probe"
	"firestore-probe/internal/scenario"
	"firestore-probe/internal/store"
	"firestore-probe/internal/store/firestore"
	"firestore-probe/internal/store/memory"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Env は1回の計測に必要な依存をまとめる
type Env struct {
	Config   *config.FileConfig
	Store    store.Store
	Run      *scenario.RunContext
	Registry *prometheus.Registry
	Bus      *events.Bus
	Outages  *chaos.Outages // dry-run で周期停止を設定した場合のみ
}

// Setup は cfg に従ってストアに接続し、計測用の RunContext を組み立てる
// flags に設定ファイルが指定されていれば変更を監視してログレベルを反映する
// flags は nil でもよい
func Setup(ctx context.Context, cfg *config.FileConfig, test string, flags *Flags) (*Env, error) {
	logger.Default.SetLevel(cfg.Level())

	timeout, err := cfg.OperationTimeout()
	if err != nil {
		return nil, err
	}

	s, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)
	bus := events.NewBus()

	exec := probe.New(s, test,
		probe.WithObserver(collector),
		probe.WithEventBus(bus),
		probe.WithTimeout(timeout),
		probe.WithVerbose(cfg.Verbose),
	)
	rc := scenario.NewRunContext(exec)
	rc.Collector = collector
	rc.Bus = bus

	env := &Env{
		Config:   cfg,
		Store:    s,
		Run:      rc,
		Registry: reg,
		Bus:      bus,
	}

	if inj, ok := s.(*chaos.Injector); ok {
		faults, err := cfg.ToChaosConfig()
		if err != nil {
			return nil, err
		}
		if faults.Outage.Enabled() {
			env.Outages = chaos.NewOutages(inj, faults.Outage)
			env.Outages.Start(ctx)
		}
	}

	if cfg.Addr != "" {
		server := api.NewServer(cfg.Addr, rc.Status, bus, reg)
		go func() {
			if err := server.Start(ctx); err != nil {
				logger.Error("api", "Status server error: %v", err)
			}
		}()
	}

	if flags != nil && flags.ConfigFile != "" {
		go func() {
			err := config.Watch(ctx, flags.ConfigFile, flags.reload)
			if err != nil {
				logger.Warn("config", "Config watch stopped: %v", err)
			}
		}()
	}

	return env, nil
}

// OpenStore は設定に応じたストアを返す
// dry-run ではインメモリストアを使い、障害注入の設定があれば適用する
func OpenStore(ctx context.Context, cfg *config.FileConfig) (store.Store, error) {
	faults, err := cfg.ToChaosConfig()
	if err != nil {
		return nil, err
	}

	if cfg.DryRun {
		latency, err := cfg.StoreLatency()
		if err != nil {
			return nil, err
		}
		logger.Info("app", "Dry run: using in-memory store (latency: %v)", latency)
		mem := memory.New()
		mem.SetDelay(latency)

		var s store.Store = mem
		if faults.Enabled() {
			logger.Info("app", "Fault injection enabled (failure rate: %.2f, delay: %v, outage: %v/%v)",
				faults.FailureRate, faults.Delay, faults.Outage.For, faults.Outage.Every)
			s = chaos.New(s, faults)
		}
		return s, nil
	}

	if faults.Enabled() {
		logger.Warn("app", "Fault injection is only applied in dry-run mode, ignoring")
	}

	s, err := firestore.NewConnector(cfg.ToConnectorConfig()).Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("接続エラー: %w", err)
	}
	return s, nil
}

// FaultStats は障害注入の統計を返す。障害注入していなければ false
func (e *Env) FaultStats() (chaos.Stats, bool) {
	inj, ok := e.Store.(*chaos.Injector)
	if !ok {
		return chaos.Stats{}, false
	}
	return inj.Stats(), true
}

// Close はストアを閉じる。障害注入していれば統計をログに残す
func (e *Env) Close() {
	if e.Outages != nil {
		e.Outages.Stop()
	}
	if stats, ok := e.FaultStats(); ok {
		logger.Info("chaos", "Injected faults: %d (error: %d, outage: %d, delay: %d)",
			stats.TotalFaults, stats.ByType[chaos.FaultError.String()],
			stats.ByType[chaos.FaultOutage.String()], stats.ByType[chaos.FaultDelay.String()])
	}
	e.Bus.Close()
	if err := e.Store.Close(); err != nil {
		logger.Warn("app", "Failed to close store: %v", err)
	}
}
