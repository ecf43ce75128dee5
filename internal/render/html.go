// Package render serialises node trees to HTML.
//
// Output is XHTML-flavoured: void elements close with " />", attributes are
// written in alphabetical key order and all whitespace comes from the text
// and tail of the nodes themselves.
package render

import (
	"strings"

	"git.home.luguber.info/inful/mdcaption/internal/node"
)

var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {},
	"input": {}, "link": {}, "meta": {}, "param": {}, "source": {}, "track": {}, "wbr": {},
}

// IsVoid reports whether tag is an element without content.
func IsVoid(tag string) bool {
	_, ok := voidElements[tag]
	return ok
}

// HTML renders a document root. Only the root's content is emitted, and
// leading and trailing whitespace of the result is trimmed.
func HTML(root *node.Node) string {
	var b strings.Builder
	if root.Tag == node.RootTag {
		b.WriteString(EscapeText(root.Text))
		for _, c := range root.Children {
			write(&b, c)
		}
	} else {
		write(&b, root)
	}
	return strings.Trim(b.String(), " \t\n")
}

// Element renders n and its descendants, excluding n's own tail.
func Element(n *node.Node) string {
	var b strings.Builder
	tail := n.Tail
	n.Tail = ""
	write(&b, n)
	n.Tail = tail
	return b.String()
}

func write(b *strings.Builder, n *node.Node) {
	switch {
	case n.IsRaw():
		b.WriteString(n.Text)
	case n.Tag == node.RootTag:
		b.WriteString(EscapeText(n.Text))
		for _, c := range n.Children {
			write(b, c)
		}
	default:
		b.WriteByte('<')
		b.WriteString(n.Tag)
		for _, k := range n.Keys() {
			b.WriteByte(' ')
			b.WriteString(k)
			b.WriteString(`="`)
			b.WriteString(EscapeAttr(n.Attr(k)))
			b.WriteByte('"')
		}
		if IsVoid(n.Tag) && n.Text == "" && n.Len() == 0 {
			b.WriteString(" />")
			break
		}
		b.WriteByte('>')
		b.WriteString(EscapeText(n.Text))
		for _, c := range n.Children {
			write(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteByte('>')
	}
	b.WriteString(EscapeText(n.Tail))
}
