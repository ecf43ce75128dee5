package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
)

func TestBatchDeduplicatesAndSorts(t *testing.T) {
	b := newBatch()
	b.add("/d/b.md")
	b.add("/d/a.md")
	b.add("/d/./b.md")

	require.Equal(t, []string{"/d/a.md", "/d/b.md"}, b.drain())
	require.Nil(t, b.drain())
}

func TestShouldIgnore(t *testing.T) {
	for _, p := range []string{"/d/.hidden.md", "/d/a.md~", "/d/.a.md.swp", "/d/a.swx", "/d/#a.md#", "/d/.DS_Store", "/d/Thumbs.db"} {
		require.True(t, ShouldIgnore(p), p)
	}
	require.False(t, ShouldIgnore("/d/a.md"))
}

func TestIsMarkdown(t *testing.T) {
	require.True(t, IsMarkdown("a.md"))
	require.True(t, IsMarkdown("A.MARKDOWN"))
	require.False(t, IsMarkdown("a.html"))
	require.False(t, IsMarkdown("md"))
}

func TestNewRejectsMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"))
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

type collector struct {
	mu      sync.Mutex
	batches [][]string
}

func (c *collector) handle(_ context.Context, paths []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, paths)
}

func (c *collector) seen() map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]bool{}
	for _, b := range c.batches {
		for _, p := range b {
			out[p] = true
		}
	}
	return out
}

func TestRunDeliversMarkdownChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := &collector{}
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, c.handle) }()

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the watcher a moment to pick up the new directory.
	time.Sleep(100 * time.Millisecond)

	md := filepath.Join(w.Root(), "a.md")
	nested := filepath.Join(w.Root(), "sub", "b.md")
	require.NoError(t, os.WriteFile(md, []byte("# a"), 0o644))
	require.NoError(t, os.WriteFile(nested, []byte("# b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte("c"), 0o644))

	require.Eventually(t, func() bool {
		s := c.seen()
		return s[md] && s[nested]
	}, 5*time.Second, 20*time.Millisecond)
	require.NotContains(t, c.seen(), filepath.Join(w.Root(), "c.txt"))

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
