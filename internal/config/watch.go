package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"cinelog/internal/logger"
)

// WatchFile reloads the configuration whenever the config file changes on
// disk. The watch runs until ctx is cancelled. Editors often replace files
// via rename, so the parent directory is watched rather than the file
// itself.
func WatchFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	target, err := filepath.Abs(path)
	if err != nil {
		target = path
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				changed, err := filepath.Abs(event.Name)
				if err != nil || changed != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := GetManager().LoadConfig(path); err != nil {
					logger.Warn("config reload failed: %v", err)
					continue
				}
				logger.Info("configuration reloaded from %s", path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error: %v", err)
			}
		}
	}()

	return nil
}
