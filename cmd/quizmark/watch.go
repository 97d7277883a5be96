package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDebounce coalesces bursts of writes (editors often save in steps).
const watchDebounce = 200 * time.Millisecond

// watchAndRender re-renders jobs whose input changes until ctx is done.
// Events are collected per file and flushed once the inputs have been
// quiet for watchDebounce. Re-renders run one at a time; events arriving
// during one are handled after it.
func watchAndRender(ctx context.Context, jobs []renderJob, logger *zap.Logger, rerender func(context.Context, []renderJob)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	byPath := make(map[string]renderJob, len(jobs))
	dirs := make(map[string]bool)
	for _, job := range jobs {
		abs, err := filepath.Abs(job.InputPath)
		if err != nil {
			abs = job.InputPath
		}
		byPath[abs] = job
		dirs[filepath.Dir(abs)] = true
	}
	// Directories, not files: atomic saves replace the inode.
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Debug("watching directory", zap.String("path", dir))
	}

	// The debounce timer fires on this goroutine's select, so re-renders
	// never overlap and none runs after return.
	pending := make(map[string]renderJob)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	flush := func() {
		changed := make([]renderJob, 0, len(pending))
		for _, job := range pending {
			changed = append(changed, job)
		}
		clear(pending)
		if len(changed) == 0 || ctx.Err() != nil {
			return
		}
		sort.Slice(changed, func(i, j int) bool { return changed[i].InputPath < changed[j].InputPath })
		rerender(ctx, changed)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			job, tracked := byPath[abs]
			if !tracked {
				continue
			}
			logger.Info("input changed",
				zap.String("file", job.InputPath),
				zap.String("operation", event.Op.String()),
			)
			pending[abs] = job
			timer.Reset(watchDebounce)

		case <-timer.C:
			flush()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("file watcher error", zap.Error(err))

		case <-ctx.Done():
			logger.Info("stopping watcher")
			return nil
		}
	}
}
