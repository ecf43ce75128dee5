package node

import "strings"

// Find resolves a slash-separated path of child tags, e.g. "img" or "a/img".
// Each step picks the first direct child with the given tag. It returns nil
// when any step has no match.
func (n *Node) Find(path string) *Node {
	cur := n
	for _, step := range strings.Split(strings.Trim(path, "/"), "/") {
		if step == "" {
			return nil
		}
		cur = cur.child(step)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// FindAll returns the direct children with the given tag, in document order.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits n and its descendants depth-first in document order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// TextContent concatenates the text of n and its descendants, including the
// tails of descendants but not n's own tail.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	if !n.IsRaw() {
		b.WriteString(n.Text)
	}
	for _, c := range n.Children {
		c.writeText(b)
		b.WriteString(c.Tail)
	}
}

func (n *Node) child(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}
