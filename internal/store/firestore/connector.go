package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	gfs "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"firestore-probe/internal/logger"
)

// EmulatorHostEnv はFirestoreクライアントが参照するエミュレータ環境変数
const EmulatorHostEnv = "FIRESTORE_EMULATOR_HOST"

// Config は接続設定
type Config struct {
	CredentialsFile string // サービスアカウントキーのパス
	ProjectID       string // 空の場合は認証情報から解決
	EmulatorHost    string // host:port。指定時は認証をスキップ
}

// Connector はFirestoreクライアントを一度だけ初期化する
type Connector struct {
	config Config

	once  sync.Once
	store *Store
	err   error
}

// NewConnector は新しいConnectorを作成する
func NewConnector(config Config) *Connector {
	return &Connector{config: config}
}

// Connect はクライアントを初期化して返す。2回目以降は同じ結果を返す
func (c *Connector) Connect(ctx context.Context) (*Store, error) {
	c.once.Do(func() {
		c.store, c.err = c.connect(ctx)
	})
	return c.store, c.err
}

func (c *Connector) connect(ctx context.Context) (*Store, error) {
	if c.config.EmulatorHost != "" {
		return c.connectEmulator(ctx)
	}

	if c.config.CredentialsFile == "" {
		return nil, errors.New("credentials file is not configured")
	}
	if _, err := os.Stat(c.config.CredentialsFile); err != nil {
		return nil, fmt.Errorf("credentials file: %w", err)
	}

	var fbConfig *firebase.Config
	if c.config.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: c.config.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, option.WithCredentialsFile(c.config.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	logger.Info("firestore", "Firebase Admin SDK initialized (credentials: %s)", c.config.CredentialsFile)
	return newStore(client), nil
}

func (c *Connector) connectEmulator(ctx context.Context) (*Store, error) {
	if c.config.ProjectID == "" {
		return nil, errors.New("project id is required when using the emulator")
	}
	if err := os.Setenv(EmulatorHostEnv, c.config.EmulatorHost); err != nil {
		return nil, fmt.Errorf("set %s: %w", EmulatorHostEnv, err)
	}

	client, err := gfs.NewClient(ctx, c.config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("create emulator client: %w", err)
	}

	logger.Info("firestore", "Connected to emulator at %s (project: %s)", c.config.EmulatorHost, c.config.ProjectID)
	return newStore(client), nil
}
