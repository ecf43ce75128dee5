// Package node provides the element tree that document processors operate on.
//
// A Node mirrors an XML element: a tag, a set of attributes, leading text,
// ordered children and a tail (the text that follows the element's closing
// tag inside its parent). Keeping text and tail on the element makes
// whitespace-exact rewrites possible without separate text nodes.
package node

import (
	"slices"
	"sort"
	"strings"
)

const (
	// RootTag labels the synthetic document root. Renderers emit only its content.
	RootTag = "#document"
	// RawTag labels a node whose Text is emitted verbatim (raw HTML, comments).
	RawTag = "#raw"
)

// Node is a single element of the document tree. Children are owned
// exclusively by their parent; the tree never shares or cycles nodes.
type Node struct {
	Tag      string
	Text     string
	Tail     string
	Children []*Node

	attrs map[string]string
}

// New creates an element with the given tag.
func New(tag string) *Node {
	return &Node{Tag: tag}
}

// NewRoot creates an empty document root.
func NewRoot() *Node {
	return New(RootTag)
}

// NewRaw creates a node carrying pre-rendered markup.
func NewRaw(markup string) *Node {
	return &Node{Tag: RawTag, Text: markup}
}

// IsRaw reports whether the node carries verbatim markup.
func (n *Node) IsRaw() bool {
	return n.Tag == RawTag
}

// Get returns the attribute value for key.
func (n *Node) Get(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// Attr returns the attribute value for key, or "" when unset.
func (n *Node) Attr(key string) string {
	return n.attrs[key]
}

// Has reports whether the attribute is present.
func (n *Node) Has(key string) bool {
	_, ok := n.attrs[key]
	return ok
}

// Set stores an attribute value.
func (n *Node) Set(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
}

// Delete removes an attribute; removing a missing key is a no-op.
func (n *Node) Delete(key string) {
	delete(n.attrs, key)
}

// Keys returns the attribute names in alphabetical order. Renderers rely on
// this order for stable output.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Attrs returns a copy of the attribute map.
func (n *Node) Attrs() map[string]string {
	out := make(map[string]string, len(n.attrs))
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.Children)
}

// Append adds children at the end.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Insert places child at index i, clamping i into [0, Len()].
func (n *Node) Insert(i int, child *Node) {
	i = max(0, min(i, len(n.Children)))
	n.Children = slices.Insert(n.Children, i, child)
}

// Index returns the position of child among n's children, or -1.
func (n *Node) Index(child *Node) int {
	return slices.Index(n.Children, child)
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	i := n.Index(child)
	if i < 0 {
		return false
	}
	n.RemoveAt(i)
	return true
}

// RemoveAt detaches and returns the child at index i.
func (n *Node) RemoveAt(i int) *Node {
	child := n.Children[i]
	n.Children = slices.Delete(n.Children, i, i+1)
	return child
}

// Clear drops attributes, text and children. The tag is left alone so the
// caller can relabel the node in place; the tail survives when keepTail is set.
func (n *Node) Clear(keepTail bool) {
	n.attrs = nil
	n.Text = ""
	n.Children = nil
	if !keepTail {
		n.Tail = ""
	}
}

// Next returns the sibling following child inside n, or nil.
func (n *Node) Next(child *Node) *Node {
	i := n.Index(child)
	if i < 0 || i+1 >= len(n.Children) {
		return nil
	}
	return n.Children[i+1]
}

// Classes returns the whitespace-separated entries of the class attribute.
func (n *Node) Classes() []string {
	return strings.Fields(n.attrs["class"])
}

// UnionClasses joins class lists, keeping the first occurrence of every name.
// Each argument may itself hold several space-separated names.
func UnionClasses(lists ...string) string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, name := range strings.Fields(list) {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return strings.Join(out, " ")
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Tag: n.Tag, Text: n.Text, Tail: n.Tail}
	if n.attrs != nil {
		c.attrs = n.Attrs()
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Equal reports whether two trees have the same tags, attributes, text,
// tails and children.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag || a.Text != b.Text || a.Tail != b.Tail {
		return false
	}
	if len(a.attrs) != len(b.attrs) {
		return false
	}
	for k, v := range a.attrs {
		if bv, ok := b.attrs[k]; !ok || bv != v {
			return false
		}
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
