package markdown

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/mdcaption/internal/node"
	"git.home.luguber.info/inful/mdcaption/internal/render"
)

type converter struct {
	src       []byte
	parseHTML bool
}

// blocks converts the block children of n into children of parent.
func (c *converter) blocks(parent *node.Node, n gast.Node) error {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if err := c.block(parent, child); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) block(parent *node.Node, n gast.Node) error {
	switch n := n.(type) {
	case *gast.Paragraph:
		p := node.New("p")
		c.inlines(p, n)
		parent.Append(p)
	case *gast.TextBlock:
		// Tight list items hold their inline content directly.
		c.inlines(parent, n)
	case *gast.Heading:
		h := node.New("h" + strconv.Itoa(n.Level))
		setAttributes(h, n)
		c.inlines(h, n)
		parent.Append(h)
	case *gast.ThematicBreak:
		parent.Append(node.New("hr"))
	case *gast.CodeBlock:
		parent.Append(c.pre(n, ""))
	case *gast.FencedCodeBlock:
		parent.Append(c.pre(n, string(n.Language(c.src))))
	case *gast.Blockquote:
		q := node.New("blockquote")
		if err := c.blocks(q, n); err != nil {
			return err
		}
		parent.Append(q)
	case *gast.List:
		tag := "ul"
		if n.IsOrdered() {
			tag = "ol"
		}
		list := node.New(tag)
		if n.IsOrdered() && n.Start != 1 {
			list.Set("start", strconv.Itoa(n.Start))
		}
		if err := c.blocks(list, n); err != nil {
			return err
		}
		parent.Append(list)
	case *gast.ListItem:
		li := node.New("li")
		if err := c.blocks(li, n); err != nil {
			return err
		}
		parent.Append(li)
	case *gast.HTMLBlock:
		return c.htmlBlock(parent, n)
	case *east.Table:
		parent.Append(c.table(n))
	default:
		// Unknown blocks from future extensions keep their children.
		return c.blocks(parent, n)
	}
	return nil
}

func (c *converter) pre(n gast.Node, lang string) *node.Node {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.src))
	}
	code := node.New("code")
	if lang != "" {
		code.Set("class", "language-"+lang)
	}
	code.Text = render.EscapeAll(b.String())
	pre := node.New("pre")
	pre.Append(code)
	return pre
}

func (c *converter) table(t *east.Table) *node.Node {
	table := node.New("table")
	var tbody *node.Node
	for child := t.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *east.TableHeader:
			thead := node.New("thead")
			thead.Append(c.row(row, "th"))
			table.Append(thead)
		case *east.TableRow:
			if tbody == nil {
				tbody = node.New("tbody")
			}
			tbody.Append(c.row(row, "td"))
		}
	}
	if tbody == nil {
		tbody = node.New("tbody")
	}
	table.Append(tbody)
	return table
}

func (c *converter) row(r gast.Node, cellTag string) *node.Node {
	tr := node.New("tr")
	for cell := r.FirstChild(); cell != nil; cell = cell.NextSibling() {
		td := node.New(cellTag)
		if tc, ok := cell.(*east.TableCell); ok && tc.Alignment != east.AlignNone {
			td.Set("style", fmt.Sprintf("text-align: %s;", tc.Alignment.String()))
		}
		c.inlines(td, cell)
		tr.Append(td)
	}
	return tr
}

// inlines converts the inline children of n into content of parent.
func (c *converter) inlines(parent *node.Node, n gast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.inline(parent, child)
	}
}

func (c *converter) inline(parent *node.Node, n gast.Node) {
	switch n := n.(type) {
	case *gast.Text:
		appendText(parent, textValue(n, c.src))
		switch {
		case n.HardLineBreak():
			parent.Append(node.New("br"))
		case n.SoftLineBreak():
			appendText(parent, "\n")
		}
	case *gast.String:
		appendText(parent, string(n.Value))
	case *gast.CodeSpan:
		code := node.New("code")
		code.Text = render.EscapeAll(c.plain(n))
		parent.Append(code)
	case *gast.Emphasis:
		tag := "em"
		if n.Level == 2 {
			tag = "strong"
		}
		el := node.New(tag)
		c.inlines(el, n)
		parent.Append(el)
	case *east.Strikethrough:
		el := node.New("del")
		c.inlines(el, n)
		parent.Append(el)
	case *gast.Link:
		a := node.New("a")
		a.Set("href", string(util.URLEscape(n.Destination, true)))
		if len(n.Title) > 0 {
			a.Set("title", string(n.Title))
		}
		c.inlines(a, n)
		parent.Append(a)
	case *gast.Image:
		img := node.New("img")
		img.Set("src", string(util.URLEscape(n.Destination, true)))
		img.Set("alt", c.plain(n))
		if title := strings.Join(strings.Fields(string(n.Title)), " "); title != "" {
			img.Set("title", title)
		}
		parent.Append(img)
	case *gast.AutoLink:
		url := string(n.URL(c.src))
		href := url
		if n.AutoLinkType == gast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			href = "mailto:" + url
		}
		a := node.New("a")
		a.Set("href", string(util.URLEscape([]byte(href), false)))
		a.Text = render.EscapeAll(string(n.Label(c.src)))
		parent.Append(a)
	case *gast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(c.src))
		}
		parent.Append(node.NewRaw(b.String()))
	default:
		c.inlines(parent, n)
	}
}

// plain returns the text content of an inline subtree, as used for image
// alt text and code spans.
func (c *converter) plain(n gast.Node) string {
	var b strings.Builder
	_ = gast.Walk(n, func(child gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *gast.Text:
			b.WriteString(textValue(t, c.src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *gast.String:
			b.Write(t.Value)
		}
		return gast.WalkContinue, nil
	})
	return b.String()
}

// textValue returns the text of t with backslash escapes resolved. An
// escaped ampersand becomes &amp; so it can never start an entity.
func textValue(t *gast.Text, src []byte) string {
	v := t.Segment.Value(src)
	if t.IsRaw() || bytes.IndexByte(v, '\\') < 0 {
		return string(v)
	}
	var b strings.Builder
	b.Grow(len(v) + 4)
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\\' && i+1 < len(v) && util.IsPunct(v[i+1]) {
			i++
			if v[i] == '&' {
				b.WriteString("&amp;")
			} else {
				b.WriteByte(v[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// appendText adds s after the last child of parent, or to its text.
func appendText(parent *node.Node, s string) {
	if s == "" {
		return
	}
	if n := parent.Len(); n > 0 {
		parent.Children[n-1].Tail += s
		return
	}
	parent.Text += s
}

func setAttributes(el *node.Node, n gast.Node) {
	for _, attr := range n.Attributes() {
		var v string
		switch value := attr.Value.(type) {
		case []byte:
			v = string(value)
		case string:
			v = value
		default:
			v = fmt.Sprint(value)
		}
		el.Set(string(attr.Name), v)
	}
}
