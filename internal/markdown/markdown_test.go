package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdcaption/internal/node"
	"git.home.luguber.info/inful/mdcaption/internal/render"
)

func renderMarkdown(t *testing.T, opts Options, src string) string {
	t.Helper()
	root, err := NewParser(opts).Parse([]byte(src))
	require.NoError(t, err)
	return render.HTML(root)
}

func TestParse_Blocks(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"paragraph", "Hello *world*", "<p>Hello <em>world</em></p>"},
		{"strong and code", "**bold** and `a < b`", "<p><strong>bold</strong> and <code>a &lt; b</code></p>"},
		{"paragraphs", "one\n\ntwo", "<p>one</p>\n<p>two</p>"},
		{"soft break", "one\ntwo", "<p>one\ntwo</p>"},
		{"hard break", "one  \ntwo", "<p>one<br />\ntwo</p>"},
		{"tight list", "* a\n* b", "<ul>\n<li>a</li>\n<li>b</li>\n</ul>"},
		{"ordered list start", "3. a\n4. b", "<ol start=\"3\">\n<li>a</li>\n<li>b</li>\n</ol>"},
		{"loose list", "* a\n\n* b", "<ul>\n<li>\n<p>a</p>\n</li>\n<li>\n<p>b</p>\n</li>\n</ul>"},
		{"blockquote", "> quoted", "<blockquote>\n<p>quoted</p>\n</blockquote>"},
		{"indented code", "    x < y\n", "<pre><code>x &lt; y\n</code></pre>"},
		{"fenced code", "```go\nfmt.Println(\"&copy;\")\n```", "<pre><code class=\"language-go\">fmt.Println(\"&amp;copy;\")\n</code></pre>"},
		{"rule", "a\n\n---\n\nb", "<p>a</p>\n<hr />\n<p>b</p>"},
		{"link", "[links](https://example.com)", "<p><a href=\"https://example.com\">links</a></p>"},
		{"entity kept", "AT&T &copy; 2024", "<p>AT&amp;T &copy; 2024</p>"},
		{"escaped ampersand", `\&nbsp; and &nbsp; \\&copy;`, `<p>&amp;nbsp; and &nbsp; \&copy;</p>`},
		{"escaped ampersand in alt", `![\&amp; x](a.png)`, `<p><img alt="&amp;amp; x" src="a.png" /></p>`},
		{"strikethrough", "~~gone~~", "<p><del>gone</del></p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, renderMarkdown(t, DefaultOptions(), tt.src))
		})
	}
}

func TestParse_Image(t *testing.T) {
	src := "![alt text](/path/to/image.png \"This is a long title\nthat spans lines\")"
	root, err := NewParser(DefaultOptions()).Parse([]byte(src))
	require.NoError(t, err)

	img := root.Find("p/img")
	require.NotNil(t, img)
	require.Equal(t, "alt text", img.Attr("alt"))
	require.Equal(t, "/path/to/image.png", img.Attr("src"))
	require.Equal(t, "This is a long title that spans lines", img.Attr("title"))
}

func TestParse_ImageInLink(t *testing.T) {
	got := renderMarkdown(t, DefaultOptions(), `[![alt text](/path/to/image.png)](/path/to/link.html)`)
	require.Equal(t, `<p><a href="/path/to/link.html"><img alt="alt text" src="/path/to/image.png" /></a></p>`, got)
}

func TestParse_MultilineAlt(t *testing.T) {
	root, err := NewParser(DefaultOptions()).Parse([]byte("![first line\nsecond line](/i.png)"))
	require.NoError(t, err)
	require.Equal(t, "first line\nsecond line", root.Find("p/img").Attr("alt"))
}

func TestParse_Table(t *testing.T) {
	src := "| Syntax | Description |\n| :--- | ----------- |\n| Header | Title |\n"
	want := strings.Join([]string{
		"<table>",
		"<thead>",
		"<tr>",
		`<th style="text-align: left;">Syntax</th>`,
		"<th>Description</th>",
		"</tr>",
		"</thead>",
		"<tbody>",
		"<tr>",
		`<td style="text-align: left;">Header</td>`,
		"<td>Title</td>",
		"</tr>",
		"</tbody>",
		"</table>",
	}, "\n")
	require.Equal(t, want, renderMarkdown(t, DefaultOptions(), src))
}

func TestParse_TablesDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.Tables = false
	root, err := NewParser(opts).Parse([]byte("| a | b |\n| - | - |\n| 1 | 2 |\n"))
	require.NoError(t, err)
	require.Nil(t, root.Find("table"))
	require.NotNil(t, root.Find("p"))
}

func TestParse_HeadingAttributes(t *testing.T) {
	root, err := NewParser(DefaultOptions()).Parse([]byte("# Title {#intro .lead}\n"))
	require.NoError(t, err)
	h := root.Find("h1")
	require.NotNil(t, h)
	require.Equal(t, "intro", h.Attr("id"))
	require.Equal(t, "lead", h.Attr("class"))
	require.Equal(t, "Title", strings.TrimSpace(h.TextContent()))
}

func TestParse_HTMLBlockRaw(t *testing.T) {
	got := renderMarkdown(t, DefaultOptions(), "<div class=\"note\">\n*not emphasis*\n</div>\n\ntext")
	require.Equal(t, "<div class=\"note\">\n*not emphasis*\n</div>\n<p>text</p>", got)
}

func TestParse_HTMLBlockParsed(t *testing.T) {
	opts := DefaultOptions()
	opts.HTMLBlocks = HTMLBlocksParse
	root, err := NewParser(opts).Parse([]byte(`<div class="note"><p>Hi &amp; bye</p></div>`))
	require.NoError(t, err)

	div := root.Find("div")
	require.NotNil(t, div)
	require.Equal(t, "note", div.Attr("class"))
	require.NotNil(t, div.Find("p"))
	require.Equal(t, "<div class=\"note\">\n<p>Hi &amp; bye</p>\n</div>", render.HTML(root))
}

func TestParseHTML_Comment(t *testing.T) {
	root := node.NewRoot()
	require.NoError(t, ParseHTML(root, "<!-- keep -->"))
	require.Equal(t, 1, root.Len())
	require.True(t, root.Children[0].IsRaw())
	require.Equal(t, "<!-- keep -->", render.HTML(root))
}

func TestPrettify(t *testing.T) {
	root := node.NewRoot()
	ul := node.New("ul")
	li := node.New("li")
	li.Text = "item"
	ul.Append(li)
	p := node.New("p")
	p.Text = "x"
	br := node.New("br")
	br.Tail = "y"
	p.Append(br)
	root.Append(ul, p)

	Prettify(root)

	require.Equal(t, "\n", ul.Text)
	require.Equal(t, "\n", ul.Tail)
	require.Equal(t, "\n", li.Tail)
	require.Equal(t, "\ny", br.Tail)
	require.Equal(t, "<ul>\n<li>item</li>\n</ul>\n<p>x<br />\ny</p>", render.HTML(root))
}

func TestIsBlockLevel(t *testing.T) {
	require.True(t, IsBlockLevel("figure"))
	require.True(t, IsBlockLevel("table"))
	require.False(t, IsBlockLevel("img"))
	require.False(t, IsBlockLevel(node.RawTag))
}
