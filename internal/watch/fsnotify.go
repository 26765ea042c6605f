package watch

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/corvine/flatindex/internal/lockset"
)

// debounce coalesces a burst of filesystem events into a single
// out-of-cycle update request per root, grounded on jeranaias-rigrun's
// FsnotifyWatcher pending-map debounce.
const debounce = 500 * time.Millisecond

// WatchFast layers an fsnotify-based fast path over Run's ticker: a
// filesystem event under any target's root triggers an immediate update
// for that target, still serialized through the same lockset so it can
// never race the ticking loop. fsnotify is an optimization, not a
// correctness requirement — if it fails to start (e.g. an unsupported
// filesystem), Run's ticker alone keeps targets current.
func WatchFast(ctx context.Context, targets []Target, locks *lockset.Set) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("watch: fsnotify unavailable, falling back to ticker only: %v", err)
		return
	}
	defer watcher.Close()

	for _, t := range targets {
		if err := watcher.Add(t.Config.Root); err != nil {
			log.Printf("watch: fsnotify add %s: %v", t.Config.Root, err)
		}
	}

	pending := map[string]*time.Timer{}

	for {
		select {
		case <-ctx.Done():
			for _, timer := range pending {
				timer.Stop()
			}
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			for _, t := range targets {
				if within(ev.Name, t.Config.Root) {
					if timer, exists := pending[t.IndexPath]; exists {
						timer.Stop()
					}
					tgt := t
					pending[t.IndexPath] = time.AfterFunc(debounce, func() {
						runOnce(ctx, []Target{tgt}, locks)
					})
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch: fsnotify error: %v", err)
		}
	}
}

// within reports whether path is root itself or a descendant of it. A raw
// prefix compare would wrongly match a sibling that merely shares root as a
// string prefix (root "/a/b" matching "/a/bc"), so the match is anchored on
// a path separator boundary.
func within(path, root string) bool {
	root = strings.TrimRight(root, string(os.PathSeparator))
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(os.PathSeparator))
}
