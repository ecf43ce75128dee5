package markdown

import (
	"strings"

	gast "github.com/yuin/goldmark/ast"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
	"git.home.luguber.info/inful/mdcaption/internal/node"
	"git.home.luguber.info/inful/mdcaption/internal/render"
)

var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

func (c *converter) htmlBlock(parent *node.Node, n *gast.HTMLBlock) error {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.src))
	}
	if n.HasClosure() {
		b.Write(n.ClosureLine.Value(c.src))
	}
	markup := strings.TrimRight(b.String(), "\n")

	if !c.parseHTML {
		raw := node.NewRaw(markup)
		raw.Tail = "\n"
		parent.Append(raw)
		return nil
	}
	return ParseHTML(parent, markup)
}

// ParseHTML parses an HTML fragment in body context and appends the result
// to parent. Decoded text is re-escaped so it renders literally.
func ParseHTML(parent *node.Node, markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), bodyContext)
	if err != nil {
		return errors.WrapError(err, errors.CategoryParse, "parse html block").Build()
	}
	for _, n := range nodes {
		appendHTML(parent, n)
	}
	return nil
}

func appendHTML(parent *node.Node, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		appendText(parent, render.EscapeAll(n.Data))
	case html.CommentNode:
		parent.Append(node.NewRaw("<!--" + n.Data + "-->"))
	case html.ElementNode:
		el := node.New(n.Data)
		for _, a := range n.Attr {
			el.Set(a.Key, render.EscapeAll(a.Val))
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			appendHTML(el, child)
		}
		parent.Append(el)
	}
}
