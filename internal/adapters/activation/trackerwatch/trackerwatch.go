// Package trackerwatch wakes the state keeper's post-switch wait loop as
// soon as the external switch tracker writes to the state directory, without
// waiting for the activation driver's next poll (§4.8, E.2).
package trackerwatch

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/zerr"
)

const eventChannelBuffer = 8

// Watch wakes up Events() on every create/write inside stateDir.
type Watch struct {
	fsWatcher *fsnotify.Watcher
	events    chan struct{}
}

// Start begins watching stateDir (non-recursively: tracker files are
// written flat into it, never into subdirectories).
func Start(ctx context.Context, stateDir string) (*Watch, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "creating tracker file watcher")
	}
	if err := fsWatcher.Add(stateDir); err != nil {
		fsWatcher.Close()
		return nil, zerr.With(zerr.Wrap(err, "watching state directory"), "path", stateDir)
	}

	w := &Watch{
		fsWatcher: fsWatcher,
		events:    make(chan struct{}, eventChannelBuffer),
	}

	go w.run(ctx)

	return w, nil
}

// Events signals (best-effort, coalesced) whenever a tracker file changes.
func (w *Watch) Events() <-chan struct{} {
	return w.events
}

// Stop releases the underlying filesystem watch.
func (w *Watch) Stop() error {
	if err := w.fsWatcher.Close(); err != nil {
		return zerr.Wrap(err, "closing tracker file watcher")
	}
	return nil
}

func (w *Watch) run(ctx context.Context) {
	defer close(w.events)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			select {
			case w.events <- struct{}{}:
			default:
				// Already has a pending wake-up queued; coalesce.
			}
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
		}
	}
}
