package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/vcnkl/pulse/config"
	"github.com/vcnkl/pulse/git"
	"github.com/vcnkl/pulse/logger"
)

const changeOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
}

type Watcher struct {
	paths       []string
	ignore      []string
	trackedOnly bool
	fsw         *fsnotify.Watcher
	log         logger.Logger
}

func NewWatcher(cfg *config.WatchConfig, log logger.Logger) (*Watcher, error) {
	if cfg.TrackedOnly && !git.Available() {
		return nil, fmt.Errorf("tracked_only requires git on PATH")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		paths:       cfg.Paths,
		ignore:      cfg.Ignore,
		trackedOnly: cfg.TrackedOnly,
		fsw:         fsw,
		log:         log.WithPrefix("watcher"),
	}, nil
}

// Start forwards the path of every relevant change to emit until ctx ends.
// emit is called from the watcher goroutine and must not block.
func (w *Watcher) Start(ctx context.Context, emit func(path string)) error {
	for _, path := range w.paths {
		if err := w.addRecursive(path); err != nil {
			return fmt.Errorf("failed to watch path %s: %w", path, err)
		}
	}
	w.log.Debug("watching", logger.Any("paths", w.paths))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event, emit)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", logger.Err(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event, emit func(path string)) {
	if w.shouldIgnore(event.Name) {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if err = w.addRecursive(event.Name); err != nil {
				w.log.Warn("failed to watch new directory", logger.String("path", event.Name), logger.Err(err))
			}
		}
	}

	if event.Op&changeOps != 0 {
		emit(event.Name)
	}
}

func (w *Watcher) Stop() {
	w.fsw.Close()
}

func (w *Watcher) addRecursive(root string) error {
	if _, err := os.Stat(root); err != nil {
		return err
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if !info.IsDir() {
			return nil
		}

		if path != root {
			if skipDirs[info.Name()] || w.shouldIgnore(path) {
				return filepath.SkipDir
			}
			if w.trackedOnly {
				tracked, err := git.IsTracked(path)
				if err != nil {
					return err
				}
				if !tracked {
					return filepath.SkipDir
				}
			}
		}

		if err = w.fsw.Add(path); err != nil {
			w.log.Warn("failed to watch directory", logger.String("path", path), logger.Err(err))
		}
		return nil
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)

	for _, pattern := range w.ignore {
		pattern = strings.TrimPrefix(pattern, "./")

		if strings.Contains(pattern, "**") {
			fragment := strings.Trim(strings.ReplaceAll(pattern, "**", ""), "/*")
			if fragment != "" && strings.Contains(path, fragment) {
				return true
			}
			continue
		}

		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(pattern, path); err == nil && matched {
			return true
		}
	}

	return false
}
