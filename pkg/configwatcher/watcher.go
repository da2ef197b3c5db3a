package configwatcher

import (
	"context"
	"path/filepath"
	"time"

	"study_core_backend/internal/config"
	"study_core_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultDebounce = time.Second

type ConfigReloader func(cfg *config.Config)

// WatchConfig 监听配置目录下的 config.yaml，防抖后重新加载并回调，ctx 结束时返回
func WatchConfig(ctx context.Context, configDir string, debounce time.Duration, reloader ConfigReloader) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create config watcher")
	}
	defer watcher.Close()

	absDir, err := filepath.Abs(configDir)
	if err != nil {
		return errors.Wrap(err, "resolve config dir")
	}
	// 监听目录，编辑器保存时常用重命名替换文件
	if err := watcher.Add(absDir); err != nil {
		return errors.Wrap(err, "watch config dir")
	}
	target := filepath.Join(absDir, "config.yaml")

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

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
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				// 防抖处理
				timer.Reset(debounce)
			}
		case <-timer.C:
			newCfg, err := config.LoadConfig(absDir)
			if err != nil {
				logger.Log.Error("Failed to reload config", zap.Error(err))
				continue
			}
			logger.Log.Info("Config reloaded", zap.String("mode", newCfg.Server.Mode))
			reloader(newCfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
