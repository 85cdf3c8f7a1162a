package mediasort

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/user/media-sorter/pkg"
)

// newGate is swappable in tests, where the production polling constants are
// far too slow.
var newGate = pkg.NewStabilityGate

// Watch processes the source tree once and then follows filesystem change
// notifications until the context is canceled or the notification channel
// fails. Events are handled strictly one at a time in arrival order; a slow
// stability check on one file delays everything that arrived after it.
func Watch(ctx context.Context, cfg pkg.Config) error {
	if _, err := Run(cfg); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, cfg.SourceDir); err != nil {
		return err
	}

	dispatcher := pkg.NewDispatcher(cfg)
	gate := newGate()

	log.Info().Str("source", cfg.SourceDir).Msg("watching for changes")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("watch session stopping")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watch event channel closed")
			}
			handleEvent(ctx, watcher, dispatcher, gate, cfg, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watch error channel closed")
			}
			// Per-event delivery errors do not end the session.
			log.Error().Err(err).Msg("watch error")
		}
	}
}

// watchTree registers the root and every existing subdirectory with the
// watcher. fsnotify watches are not recursive on their own.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", path, err)
			}
		}
		return nil
	})
}

// handleEvent reacts to a single filesystem notification. Only create and
// write events are interesting; newly created directories are added to the
// watch set, and files go through the stability gate before dispatch.
func handleEvent(ctx context.Context, watcher *fsnotify.Watcher, dispatcher *pkg.Dispatcher, gate *pkg.StabilityGate, cfg pkg.Config, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	path := event.Name
	info, err := os.Stat(path)
	if err != nil {
		// Gone already, or unreadable; either way nothing to place.
		return
	}

	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			if err := watcher.Add(path); err != nil {
				log.Warn().Err(err).Str("dir", path).Msg("failed to watch new directory")
			}
		}
		return
	}

	switch state := gate.AwaitStable(ctx, path); state {
	case pkg.StabilityStable:
		// Fall through to dispatch.
	case pkg.StabilityVanished:
		log.Debug().Str("file", path).Msg("file vanished during stability check")
		return
	case pkg.StabilityUnstable:
		log.Warn().Str("file", path).Msg("file never stabilized, leaving it in place")
		return
	case pkg.StabilityCanceled:
		return
	}

	processFile(dispatcher, path)

	if err := pkg.DeleteEmptyFolders(cfg.SourceDir); err != nil {
		log.Warn().Err(err).Str("source", cfg.SourceDir).Msg("failed to clean up empty folders")
	}
}
