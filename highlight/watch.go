package highlight

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/phanxgames/treeview"
)

// DebounceInterval is how long Watch waits after the last file event before
// reloading.
var DebounceInterval = 100 * time.Millisecond

// Watch calls fn with the freshly loaded activation every time the file at
// path changes, until ctx is cancelled. Bursts of events are coalesced.
// The directory is watched rather than the file so that editors that save
// by rename keep being followed. Load errors are passed to fn and do not
// stop the watch.
func Watch(ctx context.Context, path string, fn func(Activation, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch activation: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch activation: %w", err)
	}

	debounce := time.NewTimer(0)
	<-debounce.C
	pending := false

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !sameFile(ev.Name, path) || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			pending = true
			debounce.Reset(DebounceInterval)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			treeview.Logger().Warn("highlight: watcher error", slog.Any("err", err))

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			a, err := LoadActivation(path)
			if err != nil {
				treeview.Logger().Warn("highlight: reload failed", slog.String("path", path), slog.Any("err", err))
			} else {
				treeview.Logger().Debug("highlight: activation reloaded", slog.String("path", path), slog.Int("nodes", len(a.Nodes)))
			}
			fn(a, err)
		}
	}
}
