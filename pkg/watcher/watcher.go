// Package watcher notifies when mod files in the game directory change.
//
// Events are debounced: a burst of writes (an install copying several
// artifacts, or the user dragging files in) produces one notification after
// the directory has been quiet for the debounce interval.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/logging"
	"github.com/arthur-debert/modorg/pkg/scan"
	"github.com/fsnotify/fsnotify"
)

// Config holds watcher configuration options.
type Config struct {
	// GameDir is the OS path of the game directory.
	GameDir string
	// Locations are the rooted scan locations below GameDir.
	Locations []string
	Debounce  time.Duration
}

// DefaultConfig watches the default scan locations of gameDir.
func DefaultConfig(gameDir string) Config {
	return Config{
		GameDir:   gameDir,
		Locations: scan.DefaultLocations,
		Debounce:  500 * time.Millisecond,
	}
}

// Watcher monitors mod directories and signals when they change.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dirs      []string
	debounce  time.Duration
	onChange  chan struct{}
}

// New creates a watcher for every existing location. It fails when none of
// the locations exist.
func New(cfg Config) (*Watcher, error) {
	logger := logging.GetLogger("watcher")

	var dirs []string
	for _, loc := range cfg.Locations {
		dir := filepath.Join(cfg.GameDir, filepath.FromSlash(loc))
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			logger.Debug().Str("dir", dir).Msg("skipping missing location")
			continue
		}
		dirs = append(dirs, dir)
	}
	if len(dirs) == 0 {
		return nil, errors.Newf(errors.ErrNotFound, "no mod locations exist under %s", cfg.GameDir).
			WithDetail("gameDir", cfg.GameDir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "creating fsnotify watcher")
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultConfig(cfg.GameDir).Debounce
	}

	return &Watcher{
		fsWatcher: fsw,
		dirs:      dirs,
		debounce:  debounce,
		onChange:  make(chan struct{}, 1),
	}, nil
}

// Dirs returns the directories being watched.
func (w *Watcher) Dirs() []string {
	return w.dirs
}

// Start begins watching until ctx is done, then releases the underlying
// watcher. The returned channel is closed when watching stops.
func (w *Watcher) Start(ctx context.Context) (<-chan struct{}, error) {
	for _, dir := range w.dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			_ = w.fsWatcher.Close()
			return nil, errors.Wrapf(err, errors.ErrFileIO, "watching directory %s", dir).
				WithDetail("dir", dir)
		}
	}

	go w.loop(ctx)

	return w.onChange, nil
}

func (w *Watcher) loop(ctx context.Context) {
	logger := logging.GetLogger("watcher")
	defer close(w.onChange)
	defer func() { _ = w.fsWatcher.Close() }()

	var timer *time.Timer
	timerC := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !isRelevantEvent(event) {
				continue
			}
			logger.Trace().Str("path", event.Name).Str("op", event.Op.String()).Msg("mod file changed")

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case <-timerC():
			timer = nil
			select {
			case w.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("watch error")

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return scan.IsModFile(event.Name)
}
