package viewer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// FileChangedMsg carries the new contents of the watched file.
type FileChangedMsg struct {
	Content string
	ModTime time.Time
	Size    int64
}

// WatchErrorMsg reports a watcher or read failure; watching continues.
type WatchErrorMsg struct {
	Err error
}

// Watcher turns fsnotify events for one file into bubbletea messages.
// The parent directory is watched so editors that replace the file by
// rename are still seen.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// Watch starts watching path.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, watcher: fw}, nil
}

// Next returns a command that blocks until the file is written or
// recreated. A nil Watcher yields a nil command.
func (w *Watcher) Next() tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != w.path {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					return w.load()
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				return WatchErrorMsg{Err: err}
			}
		}
	}
}

func (w *Watcher) load() tea.Msg {
	b, err := os.ReadFile(w.path)
	if err != nil {
		return WatchErrorMsg{Err: err}
	}
	fi, err := os.Stat(w.path)
	if err != nil {
		return WatchErrorMsg{Err: err}
	}
	return FileChangedMsg{Content: string(b), ModTime: fi.ModTime(), Size: fi.Size()}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	return w.watcher.Close()
}
