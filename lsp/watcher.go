package lsp

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dhamidi/reshape/config"
)

// ConfigWatcher polls the configuration files of a workspace root and calls reload when one
// of them appears, changes or disappears.
type ConfigWatcher struct {
	rootDir      string
	reload       func()
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewConfigWatcher(rootDir string, reload func()) *ConfigWatcher {
	w := &ConfigWatcher{
		rootDir:      rootDir,
		reload:       reload,
		stopCh:       make(chan struct{}),
		pollInterval: 2 * time.Second,
		modTimes:     make(map[string]time.Time),
	}
	w.changed()
	return w
}

func (w *ConfigWatcher) Start() {
	go w.run()
}

func (w *ConfigWatcher) Stop() {
	close(w.stopCh)
}

func (w *ConfigWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *ConfigWatcher) scan() {
	if w.changed() {
		w.reload()
	}
}

// changed records the current modification times and reports whether they differ from the
// previous scan.
func (w *ConfigWatcher) changed() bool {
	changed := false
	seen := make(map[string]bool)
	for _, name := range config.FileNames {
		path := filepath.Join(w.rootDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		seen[path] = true
		lastMod, known := w.modTimes[path]
		if !known || !info.ModTime().Equal(lastMod) {
			w.modTimes[path] = info.ModTime()
			changed = true
		}
	}
	for path := range w.modTimes {
		if !seen[path] {
			delete(w.modTimes, path)
			changed = true
		}
	}
	return changed
}
