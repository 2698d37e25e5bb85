package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch lints path, then lints it again each time it changes on disk, until
// ctx is done. The parent directory is watched so editors that save by
// renaming a temporary file are followed.
func (a *App) Watch(ctx context.Context, path string, opts LintOptions) error {
	ctx = a.Context(ctx)
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := a.Lint(ctx, []string{path}, opts); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	a.logger.Info("👀 Watching manifest for changes.", "path", abs)

	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("Watch stopped.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, err := os.Stat(abs); err != nil {
				a.logger.Debug("Watched manifest is gone for now.", "op", event.Op.String())
				continue
			}
			a.logger.Debug("Manifest changed.", "op", event.Op.String())
			if _, err := a.Lint(ctx, []string{path}, opts); err != nil {
				a.logger.Error("Re-lint failed.", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("File watcher error.", "error", err)
		}
	}
}
