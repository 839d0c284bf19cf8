package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// FileWatcher keeps a Codebase in sync with the files below its root
// directory. New subdirectories are watched as they appear.
type FileWatcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewFileWatcher(c *Codebase) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}
	return &FileWatcher{
		codebase: c,
		watcher:  watcher,
		done:     make(chan struct{}),
	}, nil
}

// Start watches the root directory tree and processes events in the
// background until Stop is called.
func (w *FileWatcher) Start() error {
	if err := w.addTree(w.codebase.RootDir()); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.run()
	return nil
}

func (w *FileWatcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

func (w *FileWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrapf(err, "watching %s", path)
		}
		return nil
	})
}

func (w *FileWatcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warningf("file watcher: %s", err)
		}
	}
}

func (w *FileWatcher) handle(event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		w.codebase.RemoveFile(event.Name)

	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			if event.Has(fsnotify.Create) {
				if err := w.addTree(event.Name); err != nil {
					log.Warningf("%s", err)
				}
			}
			return
		}
		if !w.codebase.IsSource(event.Name) {
			return
		}
		log.Debugf("%s changed", event.Name)
		if err := w.codebase.ScanFile(event.Name); err != nil {
			log.Warningf("rescanning %s: %s", event.Name, err)
		}
	}
}
