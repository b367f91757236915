// Package watch keeps a live rule set in sync with a single TOML rule
// file, reloading and atomically swapping it whenever that file changes
// on disk.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	apperrors "github.com/sakurs-go/sakurs/internal/errors"
	"github.com/sakurs-go/sakurs/internal/logger"
	"github.com/sakurs-go/sakurs/internal/rules"
	"github.com/fsnotify/fsnotify"
)

// RuleWatcher holds an atomically-swappable *rules.RuleSet that tracks a
// single TOML file on disk, reloading it on write events with debouncing
// so a burst of saves only triggers one reload.
type RuleWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	current atomic.Pointer[rules.RuleSet]

	debounceDuration time.Duration
	pendingMu        sync.Mutex
	pending          *time.Timer

	onReload func(*rules.RuleSet)
}

// New loads path once, then watches its parent directory for further
// changes to it. debounceDuration collapses rapid successive writes into
// a single reload; 0 selects a 300ms default. onReload, if non-nil, is
// called after each successful reload with the new rule set.
func New(path string, debounceDuration time.Duration, onReload func(*rules.RuleSet)) (*RuleWatcher, error) {
	rs, err := rules.Load(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to create rule file watcher")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "resolving rule file path")
	}
	dir := filepath.Dir(absPath)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to watch rule directory")
	}

	if debounceDuration <= 0 {
		debounceDuration = 300 * time.Millisecond
	}

	rw := &RuleWatcher{
		watcher:          w,
		path:             absPath,
		debounceDuration: debounceDuration,
		onReload:         onReload,
	}
	rw.current.Store(rs)
	return rw, nil
}

// Current returns the most recently loaded rule set. Safe to call
// concurrently with Start/Stop.
func (rw *RuleWatcher) Current() *rules.RuleSet {
	return rw.current.Load()
}

// Start blocks, applying reloads as they're debounced in, until ctx is
// cancelled or the underlying watcher is closed.
func (rw *RuleWatcher) Start(ctx context.Context) error {
	logger.Info("starting rule file watcher", "path", rw.path)
	for {
		select {
		case <-ctx.Done():
			logger.Info("rule file watcher stopped")
			return rw.watcher.Close()

		case event, ok := <-rw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != rw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			rw.scheduleReload()

		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("rule file watcher error", "error", err)
		}
	}
}

func (rw *RuleWatcher) scheduleReload() {
	rw.pendingMu.Lock()
	defer rw.pendingMu.Unlock()
	if rw.pending != nil {
		rw.pending.Stop()
	}
	rw.pending = time.AfterFunc(rw.debounceDuration, rw.reload)
}

func (rw *RuleWatcher) reload() {
	rs, err := rules.Load(rw.path)
	if err != nil {
		logger.Error("failed to reload rule file", "path", rw.path, "error", err)
		return
	}
	rw.current.Store(rs)
	logger.Info("reloaded rule file", "path", rw.path)
	if rw.onReload != nil {
		rw.onReload(rs)
	}
}

// Stop cancels any pending debounce timer and closes the underlying
// watcher.
func (rw *RuleWatcher) Stop() error {
	rw.pendingMu.Lock()
	if rw.pending != nil {
		rw.pending.Stop()
	}
	rw.pendingMu.Unlock()
	return rw.watcher.Close()
}
