// Package watch reports changed Markdown files below a directory in
// debounced batches.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
	"git.home.luguber.info/inful/mdcaption/internal/logfields"
)

// DefaultDebounce is the quiet period after the last event before a batch
// is delivered.
const DefaultDebounce = 300 * time.Millisecond

// Handler receives one batch of changed paths, sorted and without
// duplicates. Paths may no longer exist when the change was a removal.
// Batches are delivered one at a time.
type Handler func(ctx context.Context, paths []string)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithFilter replaces the default Markdown file filter.
func WithFilter(fn func(path string) bool) Option {
	return func(w *Watcher) {
		if fn != nil {
			w.filter = fn
		}
	}
}

// Watcher watches a directory tree.
type Watcher struct {
	root     string
	debounce time.Duration
	filter   func(string) bool
	logger   *slog.Logger
	fs       *fsnotify.Watcher
}

// New starts watching root and every directory below it.
func New(root string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve watch root").
			WithContext("path", root).
			Build()
	}
	fi, err := os.Stat(abs)
	if err != nil || !fi.IsDir() {
		return nil, errors.FileSystemError("watch root is not a directory").
			WithContext("path", abs).
			Build()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.RuntimeError("failed to create file watcher").WithCause(err).Build()
	}
	w := &Watcher{
		root:     abs,
		debounce: DefaultDebounce,
		filter:   IsMarkdown,
		logger:   slog.Default(),
		fs:       fsw,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.addDirs(abs)
	return w, nil
}

// Root returns the absolute watch root.
func (w *Watcher) Root() string { return w.root }

// Close releases the underlying watcher.
func (w *Watcher) Close() error { return w.fs.Close() }

// Run delivers batches to handle until ctx is done or the watcher is
// closed. A pending batch is dropped on cancellation.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	pending := newBatch()
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(ev, pending) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		case <-timer.C:
			if paths := pending.drain(); len(paths) > 0 {
				w.logger.Debug("Change batch ready", slog.Int("files", len(paths)))
				handle(ctx, paths)
			}
		}
	}
}

// handleEvent records ev and reports whether it was relevant.
func (w *Watcher) handleEvent(ev fsnotify.Event, pending *batch) bool {
	if ShouldIgnore(ev.Name) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirs(ev.Name)
			return false
		}
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	if !w.filter(ev.Name) {
		return false
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	pending.add(ev.Name)
	return true
}

func (w *Watcher) addDirs(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && ShouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// IsMarkdown reports whether path names a Markdown source.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// ShouldIgnore reports hidden, editor temp and OS metadata files.
func ShouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}

// batch collects paths between deliveries.
type batch struct {
	paths map[string]struct{}
}

func newBatch() *batch {
	return &batch{paths: make(map[string]struct{})}
}

func (b *batch) add(path string) {
	b.paths[filepath.Clean(path)] = struct{}{}
}

func (b *batch) drain() []string {
	if len(b.paths) == 0 {
		return nil
	}
	out := make([]string, 0, len(b.paths))
	for p := range b.paths {
		out = append(out, p)
	}
	slices.Sort(out)
	clear(b.paths)
	return out
}
