package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher 配置文件监视器,变更时重新加载并回调。
// 编辑器保存配置时往往是 rename+create,所以监视的是目录而不是文件本身。
type Watcher struct {
	logger *zap.Logger
	path   string
	onLoad func(*Config)
}

// NewWatcher 创建配置监视器
func NewWatcher(logger *zap.Logger, path string, onLoad func(*Config)) *Watcher {
	return &Watcher{logger: logger, path: path, onLoad: onLoad}
}

// Run 阻塞运行,ctx 取消时退出
func (w *Watcher) Run(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("创建配置监视器失败,热更新不可用", zap.Error(err))
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		w.logger.Warn("监视配置目录失败,热更新不可用", zap.String("dir", dir), zap.Error(err))
		return
	}

	// 连续写入事件去抖
	var debounce *time.Timer
	reload := func() {
		cfg, err := Load(w.path)
		if err != nil {
			w.logger.Error("重新加载配置失败,沿用旧配置", zap.Error(err))
			return
		}
		w.logger.Info("配置已重新加载", zap.String("path", w.path))
		w.onLoad(cfg)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("配置监视器错误", zap.Error(err))
		}
	}
}
