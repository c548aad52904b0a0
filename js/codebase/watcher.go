package codebase

import (
	"os"
	"time"
)

// FileWatcher polls the project's files and re-parses the ones whose
// modification time moved forward.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time

	// skip reports files the watcher must leave alone, such as documents
	// open in an editor.
	skip func(rel string) bool
}

func NewFileWatcher(c *Codebase, pollInterval time.Duration) *FileWatcher {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: pollInterval,
		modTimes:     make(map[string]time.Time),
		skip:         func(string) bool { return false },
	}
}

// Skip installs a predicate for files the watcher must not touch.
func (w *FileWatcher) Skip(fn func(rel string) bool) {
	w.skip = fn
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.seed()
	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

// seed records the modification times of files the codebase already read
// from disk, so the first scan only picks up what changed since.
func (w *FileWatcher) seed() {
	for _, f := range w.codebase.Files() {
		if !f.ModTime.IsZero() {
			w.modTimes[f.Path] = f.ModTime
		}
	}
}

// scan compares the project's files against the last poll and returns the
// number of files it re-parsed or removed.
func (w *FileWatcher) scan() int {
	files, err := w.codebase.project.Files()
	if err != nil {
		log.Warningf("watch %s: %s", w.codebase.RootDir(), err)
		return 0
	}

	changes := 0
	current := make(map[string]bool, len(files))
	for _, rel := range files {
		current[rel] = true
		if w.skip(rel) {
			continue
		}
		info, err := os.Stat(w.codebase.abs(rel))
		if err != nil {
			continue
		}
		lastMod, known := w.modTimes[rel]
		if known && !info.ModTime().After(lastMod) {
			continue
		}
		w.modTimes[rel] = info.ModTime()
		if _, err := w.codebase.ScanFile(rel); err != nil {
			log.Warningf("%s", err)
			continue
		}
		changes++
	}

	for rel := range w.modTimes {
		if current[rel] {
			continue
		}
		delete(w.modTimes, rel)
		if !w.skip(rel) && w.codebase.RemoveFile(rel) {
			changes++
		}
	}
	return changes
}
