package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// reloadOps are the events on the config file that trigger a reload. An
// atomic save (temp file renamed over the target) arrives as Create.
const reloadOps = fsnotify.Create | fsnotify.Write | fsnotify.Rename

// Watch calls onChange with the newly loaded Config every time the file at
// path is written or replaced, until ctx is cancelled. The parent directory
// is watched, so saves that swap the file's inode keep being seen.
//
// A reload that fails (missing file, invalid YAML) is logged and skipped;
// the previous config stays active.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	target := filepath.Clean(path)

	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&reloadOps == 0 {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				slog.Warn("config: reload skipped, keeping previous config",
					"path", path, "op", event.Op.String(), "err", err)
				continue
			}
			slog.Info("config: reloaded", "path", path, "op", event.Op.String())
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
