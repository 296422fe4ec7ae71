package schools

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mbaadvisor/internal/errors"
)

// CatalogWatcher reloads a catalog file into a Registry when it changes on
// disk. A file that fails to parse leaves the active catalog in place.
type CatalogWatcher struct {
	mu sync.RWMutex

	path     string
	registry *Registry
	logger   *errors.Logger

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer
	lastModTime   time.Time

	stopChan   chan struct{}
	reloadChan chan struct{}
	onReload   func(*Catalog, error)

	running  bool
	reloads  int
	failures int
}

// NewCatalogWatcher creates a watcher for path. onReload is optional and is
// called after every reload attempt.
func NewCatalogWatcher(path string, registry *Registry, debounceDelay time.Duration, onReload func(*Catalog, error), logger *errors.Logger) *CatalogWatcher {
	if debounceDelay == 0 {
		debounceDelay = 500 * time.Millisecond
	}
	return &CatalogWatcher{
		path:          path,
		registry:      registry,
		logger:        logger,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
	}
}

// Start begins watching the catalog file
func (cw *CatalogWatcher) Start() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.running {
		return fmt.Errorf("catalog watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory so atomic replace-by-rename is observed
	dir := filepath.Dir(cw.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	cw.fsWatcher = watcher

	if stat, err := os.Stat(cw.path); err == nil {
		cw.lastModTime = stat.ModTime()
	}

	cw.running = true
	go cw.watchLoop()

	if cw.logger != nil {
		cw.logger.Info("School catalog watcher started", "file", cw.path, "debounce_delay", cw.debounceDelay)
	}
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (cw *CatalogWatcher) Stop() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if !cw.running {
		return nil
	}

	close(cw.stopChan)
	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.running = false

	if err := cw.fsWatcher.Close(); err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}
	if cw.logger != nil {
		cw.logger.Info("School catalog watcher stopped")
	}
	return nil
}

func (cw *CatalogWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-cw.fsWatcher.Events:
			if !ok {
				return
			}
			if cw.isCatalogEvent(event) {
				cw.scheduleReload()
			}

		case err, ok := <-cw.fsWatcher.Errors:
			if !ok {
				return
			}
			if cw.logger != nil {
				cw.logger.LogError(err, "Catalog watcher error")
			}

		case <-cw.reloadChan:
			if cw.hasChanged() {
				cw.reload()
			}

		case <-cw.stopChan:
			return
		}
	}
}

func (cw *CatalogWatcher) isCatalogEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(cw.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (cw *CatalogWatcher) hasChanged() bool {
	stat, err := os.Stat(cw.path)
	if err != nil {
		return false
	}

	cw.mu.Lock()
	defer cw.mu.Unlock()
	if stat.ModTime().After(cw.lastModTime) {
		cw.lastModTime = stat.ModTime()
		return true
	}
	return false
}

func (cw *CatalogWatcher) reload() {
	catalog, err := LoadCatalog(cw.path)

	cw.mu.Lock()
	if err != nil {
		cw.failures++
	} else {
		cw.reloads++
		cw.registry.Replace(catalog)
	}
	cw.mu.Unlock()

	if cw.logger != nil {
		if err != nil {
			cw.logger.LogError(err, "School catalog reload failed, keeping previous catalog", "file", cw.path)
		} else {
			cw.logger.Info("School catalog reloaded", "file", cw.path, "schools", catalog.Len())
		}
	}
	if cw.onReload != nil {
		cw.onReload(catalog, err)
	}
}

func (cw *CatalogWatcher) scheduleReload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.debounceTimer = time.AfterFunc(cw.debounceDelay, func() {
		select {
		case cw.reloadChan <- struct{}{}:
		default:
		}
	})
}

// Status reports watcher state for health output
func (cw *CatalogWatcher) Status() map[string]any {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return map[string]any{
		"running":  cw.running,
		"file":     cw.path,
		"reloads":  cw.reloads,
		"failures": cw.failures,
	}
}
