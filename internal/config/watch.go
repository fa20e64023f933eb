package config

import (
	"context"
	"path/filepath"

	"firestore-probe/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// Watch は path の変更を監視し、再読込した設定で onChange を呼ぶ
// 読込や検証に失敗した場合は以前の設定を維持し onChange は呼ばない
// ctx がキャンセルされるまで戻らない
func Watch(ctx context.Context, path string, onChange func(*FileConfig)) error {
	target := filepath.Clean(path)

	if _, err := LoadFile(target); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// rename による置き換えで inode が変わっても追えるようディレクトリを監視する
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	logger.Info("config", "Watching %s for changes", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			// アトミック保存は Create（rename先）として届く
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := LoadFile(target)
			if err == nil {
				err = cfg.Validate()
			}
			if err != nil {
				logger.Error("config", "Reload of %s failed, keeping previous config: %v", path, err)
				continue
			}

			logger.Info("config", "Reloaded %s", path)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("config", "Watcher error: %v", err)
		}
	}
}
