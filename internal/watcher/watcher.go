// Package watcher invalidates cached day indexes when the crawler writes
// new snapshot files under the corpus directory.
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ngxdduong/TrendRadar/internal/dates"
	"github.com/ngxdduong/TrendRadar/internal/index"
	"github.com/ngxdduong/TrendRadar/internal/logging"
)

// DefaultDebounce is the quiet period after the last file event before the
// day cache is invalidated. The crawler writes several platform sections in
// quick succession.
const DefaultDebounce = 2 * time.Second

// Config controls the corpus watcher.
type Config struct {
	Debounce time.Duration
}

// Watcher watches the corpus data directory and drops the cached index of
// any day whose snapshot files change.
type Watcher struct {
	dataDir string
	service *index.Service
	logger  *logging.Logger

	fs        *fsnotify.Watcher
	debounce  time.Duration
	onInvalid func(date time.Time)

	mu         sync.Mutex
	debouncers map[string]*debouncer
	done       chan struct{}
	wg         sync.WaitGroup
}

// New creates a Watcher over dataDir. onInvalid, when non-nil, is called
// after each day invalidation; the CLI uses it for progress output and
// tests use it for synchronization.
func New(dataDir string, service *index.Service, cfg Config, logger *logging.Logger, onInvalid func(date time.Time)) (*Watcher, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dataDir:    dataDir,
		service:    service,
		logger:     logger,
		fs:         fs,
		debounce:   debounce,
		onInvalid:  onInvalid,
		debouncers: make(map[string]*debouncer),
		done:       make(chan struct{}),
	}, nil
}

// Start watches the data directory plus every existing day txt directory
// and begins processing events. New day folders are picked up as the
// crawler creates them.
func (w *Watcher) Start() error {
	if err := w.fs.Add(w.dataDir); err != nil {
		return err
	}

	entries, err := os.ReadDir(w.dataDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := dates.ParseFolderName(entry.Name()); !ok {
			continue
		}
		w.addDayDirs(filepath.Join(w.dataDir, entry.Name()))
	}

	w.logger.Info("watching corpus directory", map[string]interface{}{
		"dataDir":  w.dataDir,
		"debounce": w.debounce.String(),
	})

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop ends event processing and cancels pending invalidations.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()

	w.mu.Lock()
	for _, d := range w.debouncers {
		d.cancel()
	}
	w.debouncers = nil
	w.mu.Unlock()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// A new day folder (or its txt subdirectory) must itself be watched.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.watchIfDayDir(event.Name)
			return
		}
	}

	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	if !strings.HasSuffix(event.Name, ".txt") {
		return
	}

	date, ok := w.dayOf(event.Name)
	if !ok {
		return
	}

	folder := dates.FolderName(date)
	w.mu.Lock()
	d := w.debouncers[folder]
	if d == nil {
		d = newDebouncer(w.debounce)
		w.debouncers[folder] = d
	}
	w.mu.Unlock()

	d.trigger(func() { w.invalidate(date) })
}

func (w *Watcher) invalidate(date time.Time) {
	dropped := w.service.InvalidateDay(date)
	w.logger.Debug("invalidated day cache", map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"entries": dropped,
	})
	if w.onInvalid != nil {
		w.onInvalid(date)
	}
}

// dayOf maps a snapshot file path back to its day-folder date.
func (w *Watcher) dayOf(path string) (time.Time, bool) {
	rel, err := filepath.Rel(w.dataDir, path)
	if err != nil {
		return time.Time{}, false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) == 0 {
		return time.Time{}, false
	}
	return dates.ParseFolderName(parts[0])
}

// watchIfDayDir adds a newly created day folder, or a txt directory inside
// one, to the watch set.
func (w *Watcher) watchIfDayDir(path string) {
	rel, err := filepath.Rel(w.dataDir, path)
	if err != nil {
		return
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if _, ok := dates.ParseFolderName(parts[0]); !ok {
		return
	}
	switch len(parts) {
	case 1:
		w.addDayDirs(path)
	case 2:
		if parts[1] == "txt" {
			if err := w.fs.Add(path); err != nil {
				w.logger.Warn("cannot watch txt directory", map[string]interface{}{
					"path":  path,
					"error": err.Error(),
				})
			}
		}
	}
}

// addDayDirs watches a day folder and its txt subdirectory if present.
func (w *Watcher) addDayDirs(dayDir string) {
	if err := w.fs.Add(dayDir); err != nil {
		w.logger.Warn("cannot watch day directory", map[string]interface{}{
			"path":  dayDir,
			"error": err.Error(),
		})
		return
	}
	txtDir := filepath.Join(dayDir, "txt")
	if info, err := os.Stat(txtDir); err == nil && info.IsDir() {
		if err := w.fs.Add(txtDir); err != nil {
			w.logger.Warn("cannot watch txt directory", map[string]interface{}{
				"path":  txtDir,
				"error": err.Error(),
			})
		}
	}
}
