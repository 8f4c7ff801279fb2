package store

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange every time the file at path is written, created,
// renamed over or removed, until ctx is cancelled. The parent directory is
// watched so atomic saves (temp file + rename) and edits made by other
// processes are both seen.
func Watch(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(path)

	slog.Info("store: watching data file", "path", path)

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
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			slog.Debug("store: data file changed", "path", path, "op", event.Op.String())
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("store: watcher error", "err", err)
		}
	}
}
