// Package watch observes a repository's metadata directory and invokes
// a callback, debounced, whenever the stored history may have changed.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hunk-scm/hunk-go/internal/debounce"
)

const DefaultDelay = 350 * time.Millisecond

type Watcher struct {
	fs       *fsnotify.Watcher
	debounce *debounce.Debouncer
}

// Start watches the repository rooted at root and calls onChange after
// events settle for delay. Close releases the watcher.
func Start(root string, delay time.Duration, onChange func()) (*Watcher, error) {
	if root == "" {
		return nil, fmt.Errorf("repository root not set")
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	path := metadataPath(root)
	slog.Debug("adding path to FS watcher", slog.String("path", path))
	if err := fsWatcher.Add(path); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w := &Watcher{
		fs:       fsWatcher,
		debounce: debounce.New(delay, onChange),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) Close() error {
	w.debounce.Stop()
	return w.fs.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if shouldIgnorePath(ev.Name) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			w.debounce.Trigger()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

// metadataPath prefers the VCS metadata directory so worktree churn
// does not cause spurious reloads.
func metadataPath(root string) string {
	for _, dir := range []string{".jj", ".git"} {
		candidate := filepath.Join(root, dir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return root
}

func shouldIgnorePath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}
