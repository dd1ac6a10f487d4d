package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates the cache whenever the catalog file changes.
// It watches the parent directory so editors that replace the file on save
// are still observed. The returned channel receives the path after each
// invalidation and is closed when ctx is done.
func (f *File) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create catalog watcher: %w", err)
	}

	target, err := filepath.Abs(f.path)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	changes := make(chan string, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				name, _ := filepath.Abs(ev.Name)
				if name != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) {
					continue
				}
				f.Invalidate()
				f.logger.Info("Catalog changed", "path", f.path, "op", ev.Op.String())
				select {
				case changes <- f.path:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.Warn("Catalog watcher error", "err", err)
			}
		}
	}()

	return changes, nil
}
