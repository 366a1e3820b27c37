package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind says which loader a changed file feeds.
type ChangeKind int

const (
	ChangeSpec ChangeKind = iota
	ChangeScript
)

// Change is a settled edit to one prefab file.
type Change struct {
	Path string
	Kind ChangeKind
}

// settleDelay is how long a file must stay quiet before its change is
// reported. Editors often write a file in several steps.
const settleDelay = 150 * time.Millisecond

// Watcher collects prefab edits in the background. The game loop drains
// them with Poll; nothing blocks if it never does.
type Watcher struct {
	fs *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]pendingChange
	err     error

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

type pendingChange struct {
	kind ChangeKind
	at   time.Time
}

// NewWatcher watches the given directories for yaml and tengo edits.
func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{fs: fw, pending: make(map[string]pendingChange), done: make(chan struct{})}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}

// Poll returns the changes that have settled since the last call.
func (w *Watcher) Poll() []Change {
	return w.settled(time.Now())
}

// Err returns and clears the last watch error.
func (w *Watcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.err
	w.err = nil
	return err
}

func (w *Watcher) settled(now time.Time) []Change {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []Change
	for path, p := range w.pending {
		if now.Sub(p.at) < settleDelay {
			continue
		}
		out = append(out, Change{Path: path, Kind: p.kind})
		delete(w.pending, path)
	}
	return out
}

func (w *Watcher) note(path string, at time.Time) {
	kind, ok := classify(path)
	if !ok {
		return
	}
	w.mu.Lock()
	w.pending[path] = pendingChange{kind: kind, at: at}
	w.mu.Unlock()
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.note(ev.Name, time.Now())
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.err = err
			w.mu.Unlock()
		}
	}
}

func classify(path string) (ChangeKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ChangeSpec, true
	case ".tengo":
		return ChangeScript, true
	}
	return 0, false
}
