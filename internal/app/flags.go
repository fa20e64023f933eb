package app

import (
	"flag"
	"fmt"

	"firestore-probe/internal/config"
	"firestore-probe/internal/logger"
)

// Flags は全コマンド共通のフラグ
type Flags struct {
	ConfigFile  string
	Preset      string
	Credentials string
	Project     string
	Emulator    string
	LogLevel    string
	Addr        string
	OpTimeout   string
	DryRun      bool
	Verbose     bool
}

// RegisterFlags は共通フラグを fs に登録する
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigFile, "config", "", "設定ファイルパス (YAML/JSON)")
	fs.StringVar(&f.Preset, "preset", "", "プリセット名 (default, smoke)")
	fs.StringVar(&f.Credentials, "credentials", "", "サービスアカウントキーのパス (既定: "+config.DefaultCredentialsFile+")")
	fs.StringVar(&f.Project, "project", "", "GCPプロジェクトID")
	fs.StringVar(&f.Emulator, "emulator", "", "Firestoreエミュレータのアドレス (例: localhost:8080)")
	fs.StringVar(&f.LogLevel, "log-level", "", "ログレベル (debug, info, warn, error)")
	fs.StringVar(&f.Addr, "addr", "", "状態サーバーのアドレス (例: :9090)。空なら起動しない")
	fs.StringVar(&f.OpTimeout, "op-timeout", "", "1操作あたりのタイムアウト (例: 5s)。空なら無制限")
	fs.BoolVar(&f.DryRun, "dry-run", false, "Firestoreの代わりにインメモリストアを使う")
	fs.BoolVar(&f.Verbose, "verbose", false, "成功した操作もINFOで出力する")
	return f
}

// Load は設定ファイルを読み込み、指定されたフラグで上書きして検証する
func (f *Flags) Load() (*config.FileConfig, error) {
	cfg := &config.FileConfig{}
	if f.ConfigFile != "" {
		loaded, err := config.LoadFile(f.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("設定ファイル読み込みエラー: %w", err)
		}
		cfg = loaded
	}
	f.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定検証エラー: %w", err)
	}
	return cfg, nil
}

// apply は空でないフラグだけを cfg に反映する
func (f *Flags) apply(cfg *config.FileConfig) {
	if f.Preset != "" {
		cfg.Preset = f.Preset
	}
	if f.Credentials != "" {
		cfg.Credentials = f.Credentials
	}
	if f.Project != "" {
		cfg.ProjectID = f.Project
	}
	if f.Emulator != "" {
		cfg.EmulatorHost = f.Emulator
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.Addr != "" {
		cfg.Addr = f.Addr
	}
	if f.OpTimeout != "" {
		cfg.OpTimeout = f.OpTimeout
	}
	if f.DryRun {
		cfg.DryRun = true
	}
	if f.Verbose {
		cfg.Verbose = true
	}
}

// reload は再読込した設定にフラグを重ねてからログレベルを反映する
func (f *Flags) reload(cfg *config.FileConfig) {
	f.apply(cfg)
	logger.Default.SetLevel(cfg.Level())
	logger.Info("config", "Log level set to %s", cfg.Level())
}
