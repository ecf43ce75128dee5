package attrlist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdcaption/internal/markdown"
	"git.home.luguber.info/inful/mdcaption/internal/node"
	"git.home.luguber.info/inful/mdcaption/internal/render"
)

func apply(t *testing.T, src string) *node.Node {
	t.Helper()
	root, err := markdown.NewParser(markdown.DefaultOptions()).Parse([]byte(src))
	require.NoError(t, err)
	Apply(root)
	return root
}

func TestParse(t *testing.T) {
	got := Parse(`#someid .someclass somekey='some value' other="x y" bare k=v`)
	require.Equal(t, []Attr{
		{Key: "id", Value: "someid"},
		{Key: ".", Value: "someclass"},
		{Key: "somekey", Value: "some value"},
		{Key: "other", Value: "x y"},
		{Key: "bare", Value: "bare"},
		{Key: "k", Value: "v"},
	}, got)
}

func TestAssign_ClassesAreUnioned(t *testing.T) {
	el := node.New("p")
	el.Set("class", "a")
	Assign(el, ".b .a #x")
	require.Equal(t, "a b", el.Attr("class"))
	require.Equal(t, "x", el.Attr("id"))
}

func TestAssign_SanitizesNames(t *testing.T) {
	el := node.New("p")
	Assign(el, `on<click>=x 1st=y`)
	require.Equal(t, "x", el.Attr("on_click_"))
	require.Equal(t, "y", el.Attr("_1st"))
}

func TestApply_ParagraphLastLine(t *testing.T) {
	root := apply(t, "Listing: Simple listing test\n{#testid .testclass}")
	p := root.Find("p")
	require.Equal(t, "testid", p.Attr("id"))
	require.Equal(t, "testclass", p.Attr("class"))
	require.Equal(t, "Listing: Simple listing test", p.Text)
}

func TestApply_Image(t *testing.T) {
	root := apply(t, `![alt text](/path/to/image.png "Title"){: #someid .someclass somekey='some value' }`)
	require.Equal(t,
		`<p><img alt="alt text" class="someclass" id="someid" somekey="some value" src="/path/to/image.png" title="Title" /></p>`,
		render.HTML(root))
}

func TestApply_ListItem(t *testing.T) {
	root := apply(t, "* first\n  {.done}\n* second")
	items := root.Find("ul").FindAll("li")
	require.Len(t, items, 2)
	require.Equal(t, "done", items[0].Attr("class"))
	require.Equal(t, "first", items[0].Text)
	require.False(t, items[1].Has("class"))
}

func TestApply_InlineInsideText(t *testing.T) {
	root := apply(t, "see *this*{.hl} now")
	em := root.Find("p/em")
	require.Equal(t, "hl", em.Attr("class"))
	require.Equal(t, " now", em.Tail)
}

func TestApply_NoListLeavesTreeUnchanged(t *testing.T) {
	src := "plain {text} here\n\n![a](b.png)"
	root, err := markdown.NewParser(markdown.DefaultOptions()).Parse([]byte(src))
	require.NoError(t, err)
	before := root.Clone()
	Apply(root)
	require.True(t, node.Equal(before, root))
}

func TestApply_HeaderRule(t *testing.T) {
	h := node.New("h2")
	h.Text = "Title {#t}"
	root := node.NewRoot()
	root.Append(h)
	Apply(root)
	require.Equal(t, "t", h.Attr("id"))
	require.Equal(t, "Title", h.Text)
}
