package assets

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch starts watching the search roots and their subdirectories. A
// changed, removed or renamed file is dropped from the cache so the next
// load parses it again. Calling Watch again is a no-op until Close.
func (m *Manager) Watch() error {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	if m.watcher != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, root := range m.Roots() {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return w.Add(path)
			}
			return nil
		})
		if err != nil {
			w.Close()
			return err
		}
	}

	m.watcher = w
	m.done = make(chan struct{})
	m.wg.Add(1)
	go m.watchLoop(w, m.done)
	return nil
}

func (m *Manager) watchLoop(w *fsnotify.Watcher, done <-chan struct{}) {
	defer m.wg.Done()
	for {
		select {
		case <-done:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			m.handleEvent(w, event)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			m.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (m *Manager) handleEvent(w *fsnotify.Watcher, event fsnotify.Event) {
	path, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	switch {
	case event.Has(fsnotify.Create):
		if isDir(path) {
			if err := w.Add(path); err != nil {
				m.log.Warn("watching new directory", zap.String("dir", path), zap.Error(err))
			}
		}
		m.drop(path)
	case event.Has(fsnotify.Write), event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		m.drop(path)
	}
}

func (m *Manager) stopWatch() error {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	if m.watcher == nil {
		return nil
	}
	close(m.done)
	err := m.watcher.Close()
	m.wg.Wait()
	m.watcher = nil
	m.done = nil
	return err
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
