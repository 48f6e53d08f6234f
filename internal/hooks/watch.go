package hooks

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses bursts of events from editors writing several files.
const debounce = 200 * time.Millisecond

// Watch installs the hooks, then reinstalls them every time the source
// directory changes, until ctx is done. onInstall receives every result.
func Watch(ctx context.Context, opts Options, onInstall func(Result, error)) error {
	res, err := Install(opts)
	onInstall(res, err)
	if err != nil {
		return err
	}
	if res.Skipped {
		return fmt.Errorf("cannot watch hooks: %s", res.Reason)
	}

	sourceDir := opts.SourceDir
	if !filepath.IsAbs(sourceDir) {
		sourceDir = filepath.Join(opts.Root, sourceDir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(sourceDir); err != nil {
		return fmt.Errorf("watching %s: %w", sourceDir, err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Chmod) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onInstall(Install(opts))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching hooks: %w", err)
		}
	}
}
