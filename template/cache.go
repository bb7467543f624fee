package template

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/crypto/blake2b"
)

// FileCache compiles template files on demand, keyed by absolute path, and
// swaps in a freshly compiled Template whenever fsnotify reports a file
// change. Each entry keeps a blake2b hash of the file's contents so an
// unchanged file written back to disk (same bytes, new mtime) doesn't force
// a recompile. Grounded on the teacher's fsnotify watch loop idiom
// (a dedicated goroutine draining Events/Errors channels into slog).
type FileCache struct {
	mu      sync.RWMutex
	byPath  map[string]*cacheEntry
	watcher *fsnotify.Watcher
	log     *slog.Logger
}

type cacheEntry struct {
	hash [32]byte
	tmpl *Template
}

// NewFileCache starts a FileCache with its own fsnotify watcher. Call
// Close when done to stop the watch goroutine.
func NewFileCache(log *slog.Logger) (*FileCache, error) {
	if log == nil {
		log = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("qentem: start file watcher: %w", err)
	}
	fc := &FileCache{
		byPath:  make(map[string]*cacheEntry),
		watcher: w,
		log:     log,
	}
	go fc.watch()
	return fc, nil
}

// Close stops the underlying file watcher.
func (fc *FileCache) Close() error {
	return fc.watcher.Close()
}

// Get returns the compiled Template for path, compiling and caching it on
// first access and registering the file for hot-reload.
func (fc *FileCache) Get(path string) (*Template, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("qentem: read template %s: %w", abs, err)
	}
	sum := blake2b.Sum256(data)

	fc.mu.RLock()
	entry, ok := fc.byPath[abs]
	fc.mu.RUnlock()
	if ok && entry.hash == sum {
		return entry.tmpl, nil
	}

	tmpl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("qentem: parse template %s: %w", abs, err)
	}

	fc.mu.Lock()
	_, wasWatched := fc.byPath[abs]
	fc.byPath[abs] = &cacheEntry{hash: sum, tmpl: tmpl}
	fc.mu.Unlock()

	if !wasWatched {
		if err := fc.watcher.Add(abs); err != nil {
			fc.log.Warn("qentem: could not watch template for changes", "path", abs, "error", err)
		}
	}
	return tmpl, nil
}

// watch drains the fsnotify event/error channels, recompiling a changed
// file's entry (or dropping it, if it has been removed) on every
// notification. A failed recompile keeps the previous entry in place so
// a syntax error mid-edit never takes down an already-serving template.
func (fc *FileCache) watch() {
	for {
		select {
		case ev, ok := <-fc.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fc.reload(ev.Name)
			}
			if ev.Op&fsnotify.Remove != 0 {
				fc.mu.Lock()
				delete(fc.byPath, ev.Name)
				fc.mu.Unlock()
			}
		case err, ok := <-fc.watcher.Errors:
			if !ok {
				return
			}
			fc.log.Warn("qentem: template watcher error", "error", err)
		}
	}
}

func (fc *FileCache) reload(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fc.log.Warn("qentem: could not reread changed template", "path", path, "error", err)
		return
	}
	sum := blake2b.Sum256(data)

	fc.mu.RLock()
	entry, ok := fc.byPath[path]
	fc.mu.RUnlock()
	if ok && entry.hash == sum {
		return
	}

	tmpl, err := Parse(data)
	if err != nil {
		fc.log.Warn("qentem: changed template failed to parse, keeping previous version",
			"path", path, "error", err)
		return
	}

	fc.mu.Lock()
	fc.byPath[path] = &cacheEntry{hash: sum, tmpl: tmpl}
	fc.mu.Unlock()
	fc.log.Debug("qentem: reloaded template", "path", path, "hash", hex.EncodeToString(sum[:8]))
}
