// Package fsnotify implements the ports.Watcher interface using
// github.com/fsnotify/fsnotify. It recursively watches a corpus folder,
// filters out hidden directories and scratch files, and debounces rapid
// events (office suites and sync clients fire several writes per save).
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Directories that never hold corpus documents.
var ignoreDirs = map[string]bool{
	".refmap":      true,
	"__MACOSX":     true,
	"node_modules": true,
}

// File names that are pure noise in a documents folder.
var ignoreFiles = map[string]bool{
	".DS_Store":   true,
	"Thumbs.db":   true,
	"desktop.ini": true,
}

// Suffixes of editor and downloader scratch files.
var ignoreSuffixes = []string{".swp", ".tmp", ".crdownload", ".part", "~"}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}, nil
}

// Watch starts monitoring root recursively.
// onChange is called with the absolute path of each changed file.
func (w *Watcher) Watch(root string, onChange func(path string)) error {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	// Walk and add all directories
	err = filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if ShouldIgnoreDir(info.Name()) && path != absPath {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Debounce state: track last event time per file
	debounce := make(map[string]time.Time)
	var dmu sync.Mutex
	const debounceInterval = 50 * time.Millisecond

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name

				// For Create events, add new directories to the watch list
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						if !ShouldIgnoreDir(info.Name()) {
							w.fw.Add(path)
						}
					}
				}

				// Skip ignored files/dirs
				if ShouldIgnorePath(absPath, path) {
					continue
				}

				// Debounce: skip if we've seen this file recently
				dmu.Lock()
				last, exists := debounce[path]
				now := time.Now()
				if exists && now.Sub(last) < debounceInterval {
					dmu.Unlock()
					continue
				}
				debounce[path] = now
				dmu.Unlock()

				// Fire callback for relevant operations
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					onChange(path)
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed; fsnotify recovers on its own

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

// ShouldIgnoreDir returns true if the directory name should be skipped.
// Hidden directories are skipped wholesale. The corpus walk shares this
// filter so the watcher and the index always agree on corpus membership.
func ShouldIgnoreDir(name string) bool {
	if ignoreDirs[name] {
		return true
	}
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

// ShouldIgnorePath returns true if the file path should not trigger
// onChange. Only components below root count, so a corpus that itself
// lives under a hidden directory still works.
func ShouldIgnorePath(root, path string) bool {
	base := filepath.Base(path)

	if ignoreFiles[base] {
		return true
	}
	// Office suites park lock files next to open documents.
	if strings.HasPrefix(base, "~$") {
		return true
	}
	for _, suffix := range ignoreSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	// Check every component below root; this also drops hidden files,
	// and the ".." of an out-of-root path reads as hidden.
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if ShouldIgnoreDir(part) {
			return true
		}
	}

	return false
}
