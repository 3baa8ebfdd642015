package monitoring

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchModelFile 监听模型文件变更并记录日志，模型本身只在服务重启时重新加载
func WatchModelFile(ctx context.Context, path string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// 监听所在目录，文件可能尚不存在或被原子替换
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	target := filepath.Clean(path)

	go func() {
		defer watcher.Close()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				switch {
				case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
					logger.Info("model artifact changed on disk, restart to reload",
						zap.String("path", target))
				case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
					logger.Warn("model artifact removed",
						zap.String("path", target))
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("model watcher error", zap.Error(err))

			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}
