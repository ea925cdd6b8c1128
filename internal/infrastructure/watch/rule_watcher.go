package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// RuleWatcher calls reload whenever the watched rule file changes.
type RuleWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	reload   func(path string) error
	debounce time.Duration

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

func NewRuleWatcher(path string, reload func(path string) error) (*RuleWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &RuleWatcher{
		path:     filepath.Clean(path),
		watcher:  w,
		reload:   reload,
		debounce: 500 * time.Millisecond,
		done:     make(chan struct{}),
	}, nil
}

// Start watches the file's directory, since editors often replace files
// by renaming a temporary one over them.
func (rw *RuleWatcher) Start(ctx context.Context) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.running {
		return nil
	}
	if err := rw.watcher.Add(filepath.Dir(rw.path)); err != nil {
		return err
	}
	rw.running = true

	log.Info().Str("path", rw.path).Msg("guard rule watcher started")
	go rw.loop(ctx)
	return nil
}

func (rw *RuleWatcher) Stop() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if !rw.running {
		return nil
	}
	rw.running = false
	err := rw.watcher.Close()
	<-rw.done
	return err
}

func (rw *RuleWatcher) loop(ctx context.Context) {
	defer close(rw.done)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-rw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != rw.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(rw.debounce)
			} else {
				timer.Reset(rw.debounce)
			}
			fire = timer.C
		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("path", rw.path).Msg("guard rule watcher error")
		case <-fire:
			fire = nil
			if err := rw.reload(rw.path); err != nil {
				log.Error().Err(err).Str("path", rw.path).Msg("guard rule reload failed")
				continue
			}
			log.Info().Str("path", rw.path).Msg("guard rules reloaded")
		}
	}
}
