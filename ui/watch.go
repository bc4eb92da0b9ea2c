package ui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

func (m *readerModel) initWatcher() {
	var err error
	m.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		m.common.logger.Error("error creating fsnotify watcher", "error", err)
	}
}

// watch returns a command that waits for the next write to the document.
// Editors often replace files, so the directory is watched and events are
// filtered by name.
func (m *readerModel) watch() tea.Cmd {
	if m.watcher == nil || m.common.cfg.Path == "" {
		return nil
	}
	// Only one command waits on the watcher at a time.
	watching := &m.session.watching
	if !watching.CompareAndSwap(false, true) {
		return nil
	}
	w := m.watcher
	logger := m.common.logger
	path, _ := filepath.Abs(m.common.cfg.Path)
	dir := filepath.Dir(path)

	return func() tea.Msg {
		defer watching.Store(false)

		if err := w.Add(dir); err != nil {
			logger.Error("error adding dir to fsnotify watcher", "error", err)
			return nil
		}
		logger.Debug("fsnotify watching dir", "dir", dir)

		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return nil
				}
				if name, _ := filepath.Abs(event.Name); name != path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				logger.Debug("fsnotify event", "file", event.Name, "event", event.Op)
				return reloadMsg{}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				logger.Debug("fsnotify error", "dir", dir, "error", err)
			}
		}
	}
}

func (m *readerModel) unwatchFile() {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Close(); err != nil {
		m.common.logger.Debug("error closing fsnotify watcher", "error", err)
	}
	m.watcher = nil
}
