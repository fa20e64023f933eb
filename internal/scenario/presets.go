package scenario

import "time"

// DefaultAvailability は標準の可用性テスト設定を返す
// 60秒ごとのハートビート、1時間ごとの集計表示、24時間実行
func DefaultAvailability() AvailabilityConfig {
	return AvailabilityConfig{
		Collection:        AvailabilityCollection,
		HeartbeatInterval: 60 * time.Second,
		ReportInterval:    time.Hour,
		Duration:          24 * time.Hour,
		Tick:              time.Second,
	}
}

// SmokeAvailability は短時間の動作確認用設定を返す
func SmokeAvailability() AvailabilityConfig {
	return AvailabilityConfig{
		Collection:        AvailabilityCollection,
		HeartbeatInterval: time.Second,
		ReportInterval:    5 * time.Second,
		Duration:          10 * time.Second,
		Tick:              100 * time.Millisecond,
	}
}

// DefaultPacketLoss は標準のパケットロステスト設定を返す
func DefaultPacketLoss() PacketLossConfig {
	return PacketLossConfig{
		Collection:  PacketLossCollection,
		Count:       1000,
		WriteDelay:  100 * time.Millisecond,
		VerifyDelay: 50 * time.Millisecond,
	}
}

// SmokePacketLoss は短時間の動作確認用設定を返す
func SmokePacketLoss() PacketLossConfig {
	return PacketLossConfig{
		Collection:  PacketLossCollection,
		Count:       20,
		WriteDelay:  10 * time.Millisecond,
		VerifyDelay: 5 * time.Millisecond,
		DeleteAfter: true,
	}
}

// DefaultThroughput は標準のスループットテスト設定を返す
func DefaultThroughput() ThroughputConfig {
	return ThroughputConfig{
		Collection:   ThroughputCollection,
		Duration:     1000 * time.Second,
		CleanupLimit: 1000,
	}
}

// SmokeThroughput は短時間の動作確認用設定を返す
func SmokeThroughput() ThroughputConfig {
	return ThroughputConfig{
		Collection:   ThroughputCollection,
		Duration:     5 * time.Second,
		CleanupLimit: 1000,
	}
}

// ListPresets は利用可能なプリセット名を返す
func ListPresets() []string {
	return []string{"default", "smoke"}
}

// AvailabilityPreset は名前から可用性テストのプリセットを取得する
func AvailabilityPreset(name string) (AvailabilityConfig, bool) {
	switch name {
	case "", "default":
		return DefaultAvailability(), true
	case "smoke":
		return SmokeAvailability(), true
	}
	return AvailabilityConfig{}, false
}

// PacketLossPreset は名前からパケットロステストのプリセットを取得する
func PacketLossPreset(name string) (PacketLossConfig, bool) {
	switch name {
	case "", "default":
		return DefaultPacketLoss(), true
	case "smoke":
		return SmokePacketLoss(), true
	}
	return PacketLossConfig{}, false
}

// ThroughputPreset は名前からスループットテストのプリセットを取得する
func ThroughputPreset(name string) (ThroughputConfig, bool) {
	switch name {
	case "", "default":
		return DefaultThroughput(), true
	case "smoke":
		return SmokeThroughput(), true
	}
	return ThroughputConfig{}, false
}
