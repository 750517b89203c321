package folio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces editor write bursts into one rebuild.
const watchDebounce = 200 * time.Millisecond

// Watch rebuilds the catalog whenever a file under the content directory
// changes, until ctx is done. A rebuild that fails (e.g. a slug collision
// introduced while editing) is logged and the previous catalog stays live.
func (a *App) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("folio: create watcher: %w", err)
	}
	defer watcher.Close()

	root := a.Config.ContentDir
	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("folio: watch %s: %w", root, err)
	}
	// Per-post directories hold index files; watch one level down.
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("folio: read content dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			if err := watcher.Add(filepath.Join(root, entry.Name())); err != nil {
				return fmt.Errorf("folio: watch %s: %w", entry.Name(), err)
			}
		}
	}

	var timer *time.Timer
	reload := make(chan struct{}, 1)
	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watchDebounce, func() {
			select {
			case reload <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			schedule()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("content watcher error", "error", err)
		case <-reload:
			skipped, err := a.Library.Reload()
			if err != nil {
				slog.Error("catalog rebuild failed, keeping previous catalog", "error", err)
				continue
			}
			for _, serr := range skipped {
				slog.Warn("content file excluded from catalog", "error", serr)
			}
			slog.Info("catalog rebuilt", "posts", a.Library.Catalog().Len())
		}
	}
}
