package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/stigen/internal/logger"
)

// watch calls fn each time the file at path is written or recreated, until
// ctx is done. Failures of fn are logged and do not stop the watch.
func watch(ctx context.Context, path string, fn func() error) error {
	w, err := newWatcher(path)
	if err != nil {
		return err
	}
	defer w.Close()
	return watchLoop(ctx, w, path, fn)
}

// newWatcher watches the directory of path. Editors often replace files
// instead of writing them in place, which a watch on the file itself misses.
func newWatcher(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return w, nil
}

func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, fn func() error) error {
	log := logger.Logger.With(logger.FieldComponent, "watch", logger.FieldFile, path)
	log.Infow("watching schema")
	name := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debugw("schema changed", "op", event.Op.String())
			if err := fn(); err != nil {
				log.Errorw("regeneration failed", logger.FieldError, err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnw("watcher error", logger.FieldError, err)
		}
	}
}
