package pipeline

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
	"git.home.luguber.info/inful/mdcaption/internal/frontmatter"
	"git.home.luguber.info/inful/mdcaption/internal/markdown"
	"git.home.luguber.info/inful/mdcaption/internal/node"
)

type recordingTree struct {
	name  string
	trace *[]string
	err   error
}

func (r recordingTree) Name() string { return r.name }

func (r recordingTree) Run(doc *Document) error {
	*r.trace = append(*r.trace, r.name)
	return r.err
}

type upperPost struct{}

func (upperPost) Name() string { return "upper" }

func (upperPost) Run(_ *Document, html string) (string, error) {
	return strings.ToUpper(html), nil
}

type retagTree struct{}

func (retagTree) Name() string { return "retag" }

func (retagTree) Run(doc *Document) error {
	doc.Root.Walk(func(n *node.Node) bool {
		if n.Tag == "p" {
			n.Tag = "div"
		}
		return true
	})
	doc.SetStat("retag", map[string]int{"p": 1})
	return nil
}

func TestTreeProcessorsRunByDescendingPriority(t *testing.T) {
	var trace []string
	p := New()
	require.NoError(t, p.AddTreeProcessor(recordingTree{name: "low", trace: &trace}, 8))
	require.NoError(t, p.AddTreeProcessor(recordingTree{name: "high", trace: &trace}, 10))
	require.NoError(t, p.AddTreeProcessor(recordingTree{name: "low-2", trace: &trace}, 8))

	require.Equal(t, []string{"high", "low", "low-2"}, p.TreeProcessors())
	_, err := p.Convert(context.Background(), "doc.md", []byte("text"))
	require.NoError(t, err)
	require.Equal(t, []string{"high", "low", "low-2"}, trace)
}

func TestDuplicateProcessorNameIsConfigError(t *testing.T) {
	var trace []string
	p := New()
	require.NoError(t, p.AddTreeProcessor(recordingTree{name: "x", trace: &trace}, 1))
	err := p.AddTreeProcessor(recordingTree{name: "x", trace: &trace}, 2)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.True(t, p.HasTreeProcessor("x"))
}

func TestNilProcessorIsInternalError(t *testing.T) {
	err := New().AddPostProcessor(nil, 1)
	require.True(t, errors.HasCategory(err, errors.CategoryInternal))
}

func TestConvert(t *testing.T) {
	p := New()
	require.NoError(t, p.AddTreeProcessor(retagTree{}, 5))
	require.NoError(t, p.AddPostProcessor(upperPost{}, 1))

	src := []byte("---\ntitle: Hello\n---\nsome *text*\n")
	res, err := p.Convert(context.Background(), "doc.md", src)
	require.NoError(t, err)
	require.Equal(t, "<DIV>SOME <EM>TEXT</EM></DIV>", res.HTML)
	require.Equal(t, "Hello", res.Meta["title"])
	require.Equal(t, map[string]map[string]int{"retag": {"p": 1}}, res.Stats)

	parts, err := frontmatter.Split(src)
	require.NoError(t, err)
	require.Equal(t, Fingerprint(parts), res.Fingerprint)
	require.NotEmpty(t, res.Fingerprint)
}

func TestFingerprintChangesWithBody(t *testing.T) {
	a, err := frontmatter.Split([]byte("---\nx: 1\n---\nbody one\n"))
	require.NoError(t, err)
	b, err := frontmatter.Split([]byte("---\nx: 1\n---\nbody two\n"))
	require.NoError(t, err)
	require.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestConvertWrapsProcessorErrors(t *testing.T) {
	var trace []string
	boom := stderrors.New("boom")
	p := New()
	require.NoError(t, p.AddTreeProcessor(recordingTree{name: "bad", trace: &trace, err: boom}, 1))

	_, err := p.Convert(context.Background(), "doc.md", []byte("x"))
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
	require.True(t, errors.HasCategory(err, errors.CategoryRender))
}

func TestConvertFrontMatterErrors(t *testing.T) {
	_, err := New().Convert(context.Background(), "doc.md", []byte("---\nbroken\n"))
	require.Error(t, err)
	require.ErrorIs(t, err, frontmatter.ErrMissingClosingDelimiter)
	require.True(t, errors.HasCategory(err, errors.CategoryParse))

	_, err = New().Convert(context.Background(), "doc.md", []byte("---\na: [1\n---\nbody\n"))
	require.True(t, errors.HasCategory(err, errors.CategoryParse))
}

func TestConvertHonoursCancellation(t *testing.T) {
	var trace []string
	p := New()
	require.NoError(t, p.AddTreeProcessor(recordingTree{name: "t", trace: &trace}, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Convert(ctx, "doc.md", []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, trace)
}

func TestWithMarkdown(t *testing.T) {
	opts := markdown.DefaultOptions()
	opts.Strikethrough = false
	res, err := New(WithMarkdown(opts)).Convert(context.Background(), "doc.md", []byte("~~x~~"))
	require.NoError(t, err)
	require.Equal(t, "<p>~~x~~</p>", res.HTML)
}

func TestDocumentStatsAreCopies(t *testing.T) {
	doc := NewDocument("d")
	counts := map[string]int{"figure": 1}
	doc.SetStat("caption", counts)
	counts["figure"] = 9
	require.Equal(t, 1, doc.Stats()["caption"]["figure"])
}
