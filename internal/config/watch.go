package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses the burst of events editors emit for a single save.
const debounce = 100 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk.
// Reloaded configurations arrive on Updates; read or parse failures on Errors.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan SkaterConfig
	errs    chan error
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// Watch starts watching path. The parent directory is watched so that
// editors replacing the file by rename are noticed too.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	w := &Watcher{
		path:    abs,
		watcher: fw,
		updates: make(chan SkaterConfig, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Updates delivers each successfully reloaded configuration.
func (w *Watcher) Updates() <-chan SkaterConfig {
	return w.updates
}

// Errors delivers reload failures. The previous configuration stays in effect.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
		close(w.updates)
		close(w.errs)
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	var last time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			now := time.Now()
			if now.Sub(last) < debounce {
				continue
			}
			last = now
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendErr(err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	// Writers may still be flushing the file.
	select {
	case <-time.After(debounce):
	case <-w.done:
		return
	}

	cfg, err := LoadFile(w.path)
	if err != nil {
		w.sendErr(err)
		return
	}
	select {
	case w.updates <- cfg:
	case <-w.done:
	}
}

func (w *Watcher) sendErr(err error) {
	select {
	case w.errs <- err:
	case <-w.done:
	}
}
