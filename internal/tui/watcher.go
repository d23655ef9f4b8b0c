package tui

import (
	"log/slog"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// dbWatcher reports writes to the database file (and its WAL) made by other
// processes, such as the CLI running in another terminal
type dbWatcher struct {
	fsWatcher *fsnotify.Watcher
	base      string
	logger    *slog.Logger

	changes chan struct{}
	done    chan struct{}
}

// newDBWatcher watches the directory holding path
func newDBWatcher(path string, logger *slog.Logger) (*dbWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &dbWatcher{
		fsWatcher: fsw,
		base:      filepath.Base(path),
		logger:    logger,
		changes:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

func (w *dbWatcher) watchLoop() {
	defer close(w.changes)
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default:
				// A reload is already pending
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("database watcher error", "error", err)
		}
	}
}

func (w *dbWatcher) relevant(event fsnotify.Event) bool {
	if !strings.HasPrefix(filepath.Base(event.Name), w.base) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}

// wait returns a command that blocks until the next change
func (w *dbWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// Close stops the watcher
func (w *dbWatcher) Close() error {
	close(w.done)
	return w.fsWatcher.Close()
}
