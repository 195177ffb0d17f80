// Package watch specifies the change-notification contract watch mode
// depends on and provides a default fsnotify-backed implementation.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op classifies what happened to a path.
type Op string

const (
	OpCreate Op = "create"
	OpWrite  Op = "write"
	OpRemove Op = "remove"
	OpRename Op = "rename"
)

// Change is one debounced, deduplicated filesystem change.
type Change struct {
	Path string
	Op   Op
}

// ChangeNotifier is the contract internal/project's watch mode depends on:
// a stream of debounced change batches for files under Root, honoring
// IgnoreGlobs. Implementations own their own goroutines; Close stops them
// and closes Changes.
type ChangeNotifier interface {
	// Start begins watching and returns a channel of batched changes. The
	// channel is closed when Close is called or an unrecoverable error
	// occurs.
	Start() (<-chan []Change, error)
	Close() error
}

// Options configures a ChangeNotifier.
type Options struct {
	Root        string
	IgnoreGlobs []string
	DebounceMs  int
}

// FSNotifyNotifier is the default ChangeNotifier, backed by
// github.com/fsnotify/fsnotify: recursive directory adds plus a debounce
// window that batches rapid event bursts into one notification.
type FSNotifyNotifier struct {
	opts    Options
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]Op
	timer   *time.Timer

	out  chan []Change
	done chan struct{}
}

// NewFSNotifyNotifier creates a ChangeNotifier for opts.Root. DebounceMs
// <= 0 defaults to 200ms, matching mcp.json's debounce_ms default.
func NewFSNotifyNotifier(opts Options) (*FSNotifyNotifier, error) {
	if opts.DebounceMs <= 0 {
		opts.DebounceMs = 200
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FSNotifyNotifier{
		opts:    opts,
		watcher: watcher,
		pending: make(map[string]Op),
		out:     make(chan []Change, 1),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching opts.Root recursively and returns the change
// channel.
func (n *FSNotifyNotifier) Start() (<-chan []Change, error) {
	if err := n.addRecursive(n.opts.Root); err != nil {
		return nil, err
	}
	go n.loop()
	return n.out, nil
}

// Close stops the underlying watcher and the debounce loop.
func (n *FSNotifyNotifier) Close() error {
	close(n.done)
	return n.watcher.Close()
}

func (n *FSNotifyNotifier) loop() {
	defer close(n.out)
	for {
		select {
		case event, ok := <-n.watcher.Events:
			if !ok {
				return
			}
			n.handle(event)
		case _, ok := <-n.watcher.Errors:
			if !ok {
				return
			}
		case <-n.done:
			return
		}
	}
}

func (n *FSNotifyNotifier) handle(event fsnotify.Event) {
	if n.ignored(event.Name) {
		return
	}

	var op Op
	switch {
	case event.Op&fsnotify.Create != 0:
		op = OpCreate
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			n.watcher.Add(event.Name)
		}
	case event.Op&fsnotify.Remove != 0:
		op = OpRemove
	case event.Op&fsnotify.Rename != 0:
		op = OpRename
	case event.Op&fsnotify.Write != 0:
		op = OpWrite
	default:
		return
	}

	n.mu.Lock()
	n.pending[event.Name] = op
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(time.Duration(n.opts.DebounceMs)*time.Millisecond, n.flush)
	n.mu.Unlock()
}

func (n *FSNotifyNotifier) flush() {
	n.mu.Lock()
	if len(n.pending) == 0 {
		n.mu.Unlock()
		return
	}
	changes := make([]Change, 0, len(n.pending))
	for path, op := range n.pending {
		changes = append(changes, Change{Path: path, Op: op})
	}
	n.pending = make(map[string]Op)
	n.mu.Unlock()

	select {
	case n.out <- changes:
	case <-n.done:
	}
}

func (n *FSNotifyNotifier) ignored(path string) bool {
	rel, err := filepath.Rel(n.opts.Root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, glob := range n.opts.IgnoreGlobs {
		if strings.HasPrefix(rel, strings.TrimSuffix(glob, "/**")) {
			return true
		}
	}
	return false
}

func (n *FSNotifyNotifier) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if n.ignored(path) {
			return filepath.SkipDir
		}
		return n.watcher.Add(path)
	})
}
