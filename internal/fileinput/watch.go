package fileinput

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zhubert/tokenlens/internal/errors"
	"github.com/zhubert/tokenlens/internal/logger"
)

// settle groups the burst of events one save produces.
const settle = 50 * time.Millisecond

// Watcher reports changes to one file.
type Watcher struct {
	path    string
	changes chan string
	cancel  context.CancelFunc
	done    chan struct{}
}

// Watch starts watching path. The parent directory is watched rather than
// the file itself so editors that save by rename are still seen.
func Watch(ctx context.Context, path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.FileReadFailed(path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.FileReadFailed(path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, errors.FileReadFailed(path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		path:    abs,
		changes: make(chan string, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go w.run(ctx, fw)
	return w, nil
}

// Changes delivers the watched path after each settled change. It is closed
// when the watcher stops.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Path returns the absolute watched path.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching and waits for the goroutine to exit.
func (w *Watcher) Close() {
	w.cancel()
	<-w.done
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher) {
	defer close(w.done)
	defer close(w.changes)
	defer fw.Close()

	log := logger.WithComponent("FileWatch").With("path", w.path)
	base := filepath.Base(w.path)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(settle)
			} else {
				timer.Reset(settle)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.changes <- w.path:
			default:
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			log.Warn("watch error", "error", err)
		}
	}
}
