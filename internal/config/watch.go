package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces bursts of editor writes into one reload.
const DefaultDebounce = 100 * time.Millisecond

// Watch reloads the config file at path whenever it is written or
// recreated and passes the result to onChange. Decode failures are logged
// and skipped. The returned channel closes once the watcher has stopped
// after ctx is canceled.
func Watch(ctx context.Context, path string, debounce time.Duration, log *zap.Logger, onChange func(FileConfig)) (<-chan struct{}, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		if cerr := watcher.Close(); cerr != nil {
			// Best-effort close on setup failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to watch config dir: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		var (
			mu      sync.Mutex
			pending *time.Timer
			wg      sync.WaitGroup
		)
		defer func() {
			mu.Lock()
			if pending != nil && pending.Stop() {
				wg.Done()
			}
			mu.Unlock()
			wg.Wait()
			if err := watcher.Close(); err != nil {
				log.Warn("failed to close config watcher", zap.Error(err))
			}
		}()

		reload := func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			cfg, err := LoadConfig(path)
			if err != nil {
				log.Warn("config reload failed", zap.String("path", path), zap.Error(err))
				return
			}
			log.Info("config reloaded", zap.String("path", path))
			onChange(cfg)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filepath.Base(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				mu.Lock()
				if pending != nil && pending.Stop() {
					wg.Done()
				}
				wg.Add(1)
				pending = time.AfterFunc(debounce, reload)
				mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher error", zap.Error(err))
			}
		}
	}()
	return done, nil
}
