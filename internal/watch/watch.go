// Package watch keeps the input directory under observation after the
// initial batch, feeding newly created image files through the same
// per-file conversion path.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/trungnx2605/webimage/internal/config"
	"github.com/trungnx2605/webimage/internal/logging"
	"github.com/trungnx2605/webimage/internal/naming"
	"github.com/trungnx2605/webimage/internal/pipeline"
)

// settleDelay is how long a file must be quiet (no further events) before
// it is processed. Copies into the watched directory arrive as a Create
// followed by a burst of Writes.
const settleDelay = 500 * time.Millisecond

// Run watches cfg.InputDir until ctx is cancelled. Create, Write and Rename
// events on files with image extensions are debounced per path and then
// converted. Returns a non-nil error only when the watcher cannot start.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(cfg.InputDir); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.InputDir, err)
	}

	log.Info("Watching %s for new images (Ctrl-C to stop)", cfg.InputDir)

	resolver := naming.NewCollisionResolver()
	var stats pipeline.RunStats
	pending := make(map[string]time.Time) // path → time of last event

	ticker := time.NewTicker(settleDelay / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Watch stopped: %d thumbnails generated, %d failed", stats.Generated, stats.Failed)
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !pipeline.IsImagePath(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				pending[ev.Name] = time.Now()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watcher error: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settleDelay {
					continue
				}
				delete(pending, path)
				stats.FilesFound++
				stats.Current = stats.FilesFound
				pipeline.ProcessFile(ctx, cfg, log, path, &stats, resolver)
			}
		}
	}
}
