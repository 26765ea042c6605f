// Package watch implements the periodic re-run loop over configured
// index targets: tick, update every target, isolate
// per-target errors, and never exit on error. The ticker is the required
// liveness backstop; internal/watch/fsnotify.go layers an optional
// fsnotify-based fast path on top, grounded on jeranaias-rigrun's
// go-tui/internal/index/watcher.go FsnotifyWatcher, without replacing the
// ticker.
package watch

import (
	"context"
	"log"
	"time"

	"github.com/corvine/flatindex/internal/builder"
	"github.com/corvine/flatindex/internal/lockset"
	"github.com/corvine/flatindex/internal/updater"
)

// Target pairs an on-disk index path with the builder.Config describing
// how to rebuild it.
type Target struct {
	IndexPath string
	Config    builder.Config
}

// Run loops forever at intervalSeconds, running an incremental update over
// every target each tick. Errors from an individual target are logged and
// never stop the loop; cancellation is cooperative at the sleep boundary
// (ctx.Done()).
func Run(ctx context.Context, intervalSeconds int, targets []Target, locks *lockset.Set) {
	if intervalSeconds < 1 {
		intervalSeconds = 1
	}
	ticker := time.NewTicker(time.Duration(intervalSeconds) * time.Second)
	defer ticker.Stop()

	runOnce(ctx, targets, locks)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce(ctx, targets, locks)
		}
	}
}

func runOnce(ctx context.Context, targets []Target, locks *lockset.Set) {
	for _, t := range targets {
		_, _, err := updater.Update(ctx, t.IndexPath, t.Config, locks)
		if err != nil {
			log.Printf("watch: update %s: %v", t.IndexPath, err)
		}
	}
}
