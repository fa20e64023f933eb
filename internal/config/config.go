package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"firestore-probe/internal/chaos"
	"firestore-probe/internal/logger"
	"firestore-probe/internal/scenario"
	"firestore-probe/internal/store/firestore"

	"gopkg.in/yaml.v3"
)

// DefaultCredentialsFile はサービスアカウントキーの既定パス
const DefaultCredentialsFile = "./CD/serviceAccountKey.json"

// FileConfig は設定ファイルの構造
type FileConfig struct {
	Preset       string `yaml:"preset" json:"preset"`
	Credentials  string `yaml:"credentials" json:"credentials"`
	ProjectID    string `yaml:"project_id" json:"project_id"`
	EmulatorHost string `yaml:"emulator_host" json:"emulator_host"`
	LogLevel     string `yaml:"log_level" json:"log_level"`
	Addr         string `yaml:"addr" json:"addr"`
	DryRun       bool   `yaml:"dry_run" json:"dry_run"`
	Verbose      bool   `yaml:"verbose" json:"verbose"`
	OpTimeout    string `yaml:"op_timeout" json:"op_timeout"`

	Fault        FaultConfig         `yaml:"fault" json:"fault"`
	Availability AvailabilitySection `yaml:"availability" json:"availability"`
	PacketLoss   PacketLossSection   `yaml:"packetloss" json:"packetloss"`
	Throughput   ThroughputSection   `yaml:"throughput" json:"throughput"`
}

// FaultConfig は障害注入設定（dry-run時のみ有効）
type FaultConfig struct {
	FailureRate float64 `yaml:"failure_rate" json:"failure_rate"`
	Delay       string  `yaml:"delay" json:"delay"`
	Seed        uint64  `yaml:"seed" json:"seed"`
	Latency     string  `yaml:"latency" json:"latency"`
	OutageEvery string  `yaml:"outage_every" json:"outage_every"`
	OutageFor   string  `yaml:"outage_for" json:"outage_for"`
}

// AvailabilitySection は可用性テスト設定
type AvailabilitySection struct {
	Collection        string `yaml:"collection" json:"collection"`
	HeartbeatInterval string `yaml:"heartbeat_interval" json:"heartbeat_interval"`
	ReportInterval    string `yaml:"report_interval" json:"report_interval"`
	Duration          string `yaml:"duration" json:"duration"`
	Tick              string `yaml:"tick" json:"tick"`
}

// PacketLossSection はパケットロステスト設定
type PacketLossSection struct {
	Collection  string `yaml:"collection" json:"collection"`
	Count       *int   `yaml:"count" json:"count"`
	WriteDelay  string `yaml:"write_delay" json:"write_delay"`
	VerifyDelay string `yaml:"verify_delay" json:"verify_delay"`
	DeleteAfter bool   `yaml:"delete_after" json:"delete_after"`
}

// ThroughputSection はスループットテスト設定
type ThroughputSection struct {
	Collection   string `yaml:"collection" json:"collection"`
	Duration     string `yaml:"duration" json:"duration"`
	CleanupLimit *int   `yaml:"cleanup_limit" json:"cleanup_limit"`
}

// LoadFile は設定ファイルを読み込む
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &config, nil
}

// Validate は設定を検証する
func (f *FileConfig) Validate() error {
	if f.Preset != "" {
		if _, ok := scenario.AvailabilityPreset(f.Preset); !ok {
			return fmt.Errorf("unknown preset: %s", f.Preset)
		}
	}

	if _, err := logger.ParseLevel(f.LogLevel); err != nil {
		return err
	}

	if _, err := f.OperationTimeout(); err != nil {
		return err
	}

	if _, err := f.StoreLatency(); err != nil {
		return err
	}

	if f.Fault.FailureRate < 0 || f.Fault.FailureRate > 1 {
		return fmt.Errorf("fault.failure_rate must be between 0 and 1")
	}

	if f.PacketLoss.Count != nil && *f.PacketLoss.Count < 0 {
		return fmt.Errorf("packetloss.count must be non-negative")
	}

	if f.Throughput.CleanupLimit != nil && *f.Throughput.CleanupLimit < 0 {
		return fmt.Errorf("throughput.cleanup_limit must be non-negative")
	}

	return nil
}

// Level はログレベルを返す
func (f *FileConfig) Level() logger.Level {
	level, err := logger.ParseLevel(f.LogLevel)
	if err != nil {
		return logger.LevelInfo
	}
	return level
}

// OperationTimeout は1操作あたりのタイムアウトを返す。未指定なら0（無制限）
func (f *FileConfig) OperationTimeout() (time.Duration, error) {
	var d time.Duration
	if err := parseDuration("op_timeout", f.OpTimeout, &d); err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("op_timeout must be non-negative")
	}
	return d, nil
}

// StoreLatency はdry-run時のインメモリストアの応答遅延を返す
// 障害としては数えない基礎レイテンシ
func (f *FileConfig) StoreLatency() (time.Duration, error) {
	var d time.Duration
	if err := parseDuration("fault.latency", f.Fault.Latency, &d); err != nil {
		return 0, err
	}
	return d, nil
}

// ToConnectorConfig は接続設定に変換する
func (f *FileConfig) ToConnectorConfig() firestore.Config {
	creds := f.Credentials
	if creds == "" {
		creds = DefaultCredentialsFile
	}
	return firestore.Config{
		CredentialsFile: creds,
		ProjectID:       f.ProjectID,
		EmulatorHost:    f.EmulatorHost,
	}
}

// ToChaosConfig は障害注入設定に変換する
func (f *FileConfig) ToChaosConfig() (chaos.Config, error) {
	config := chaos.Config{
		FailureRate: f.Fault.FailureRate,
		Seed:        f.Fault.Seed,
	}
	if err := parseDuration("fault.delay", f.Fault.Delay, &config.Delay); err != nil {
		return config, err
	}
	if err := parseDuration("fault.outage_every", f.Fault.OutageEvery, &config.Outage.Every); err != nil {
		return config, err
	}
	if err := parseDuration("fault.outage_for", f.Fault.OutageFor, &config.Outage.For); err != nil {
		return config, err
	}
	return config, config.Outage.Validate()
}

// ToAvailabilityConfig は可用性テスト設定に変換する
func (f *FileConfig) ToAvailabilityConfig() (scenario.AvailabilityConfig, error) {
	config, ok := scenario.AvailabilityPreset(f.presetName())
	if !ok {
		return config, fmt.Errorf("unknown preset: %s", f.Preset)
	}

	sec := f.Availability
	if sec.Collection != "" {
		config.Collection = sec.Collection
	}
	fields := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"availability.heartbeat_interval", sec.HeartbeatInterval, &config.HeartbeatInterval},
		{"availability.report_interval", sec.ReportInterval, &config.ReportInterval},
		{"availability.duration", sec.Duration, &config.Duration},
		{"availability.tick", sec.Tick, &config.Tick},
	}
	for _, fd := range fields {
		if err := parseDuration(fd.name, fd.value, fd.dst); err != nil {
			return config, err
		}
	}

	return config, config.Validate()
}

// ToPacketLossConfig はパケットロステスト設定に変換する
func (f *FileConfig) ToPacketLossConfig() (scenario.PacketLossConfig, error) {
	config, ok := scenario.PacketLossPreset(f.presetName())
	if !ok {
		return config, fmt.Errorf("unknown preset: %s", f.Preset)
	}

	sec := f.PacketLoss
	if sec.Collection != "" {
		config.Collection = sec.Collection
	}
	if sec.Count != nil {
		config.Count = *sec.Count
	}
	if err := parseDuration("packetloss.write_delay", sec.WriteDelay, &config.WriteDelay); err != nil {
		return config, err
	}
	if err := parseDuration("packetloss.verify_delay", sec.VerifyDelay, &config.VerifyDelay); err != nil {
		return config, err
	}
	if sec.DeleteAfter {
		config.DeleteAfter = true
	}

	return config, config.Validate()
}

// ToThroughputConfig はスループットテスト設定に変換する
func (f *FileConfig) ToThroughputConfig() (scenario.ThroughputConfig, error) {
	config, ok := scenario.ThroughputPreset(f.presetName())
	if !ok {
		return config, fmt.Errorf("unknown preset: %s", f.Preset)
	}

	sec := f.Throughput
	if sec.Collection != "" {
		config.Collection = sec.Collection
	}
	if err := parseDuration("throughput.duration", sec.Duration, &config.Duration); err != nil {
		return config, err
	}
	if sec.CleanupLimit != nil {
		config.CleanupLimit = *sec.CleanupLimit
	}

	return config, config.Validate()
}

func (f *FileConfig) presetName() string {
	if f.Preset == "" {
		return "default"
	}
	return f.Preset
}

// parseDuration は空でなければ s をパースして dst に設定する
func parseDuration(field, s string, dst *time.Duration) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	*dst = d
	return nil
}
