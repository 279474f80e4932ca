package app

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// fileChangeDebounceInterval is the quiet period before the tree reloads.
const fileChangeDebounceInterval = 300 * time.Millisecond

// addWatches adds the collection directories that are not watched yet.
// Directories created later are picked up on the next reload.
func (m *Model) addWatches() {
	if m.watcher == nil {
		return
	}
	watched := m.watcher.WatchList()
	for _, dir := range m.store.WatchDirs() {
		if slices.Contains(watched, dir) {
			continue
		}
		if err := m.watcher.Add(dir); err != nil {
			m.logger.Debug("watch failed", "dir", dir, "err", err)
		}
	}
}

// watchFilesCmd returns a command that listens for file system changes
func (m *Model) watchFilesCmd() tea.Cmd {
	w := m.watcher
	return func() tea.Msg {
		if w == nil {
			return nil
		}

		// Block until we get an actual file change event
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return nil // Watcher closed
				}
				return FileChangeMsg{Path: event.Name, Op: event.Op}
			case _, ok := <-w.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (m *Model) fileChanged(msg FileChangeMsg) {
	// Always continue watching for more events
	m.queue(m.watchFilesCmd())

	m.pendingFileChanges[msg.Path] = msg.Op
	if m.fileChangeDebouncing {
		return
	}
	m.fileChangeDebouncing = true
	m.queue(tea.Tick(fileChangeDebounceInterval, func(time.Time) tea.Msg {
		return fileChangeDebounceMsg{}
	}))
}

// collectionsChanged reports whether any pending change can alter the tree:
// a .sql file, or a path without an extension, which may be a collection
// directory.
func (m *Model) collectionsChanged() bool {
	for path := range m.pendingFileChanges {
		ext := filepath.Ext(path)
		if ext == "" || strings.EqualFold(ext, ".sql") {
			return true
		}
	}
	return false
}
