package markdown

import (
	"strings"

	"git.home.luguber.info/inful/mdcaption/internal/node"
)

var blockLevel = map[string]struct{}{
	node.RootTag: {}, "address": {}, "article": {}, "aside": {}, "blockquote": {},
	"details": {}, "div": {}, "dl": {}, "fieldset": {}, "figcaption": {}, "figure": {},
	"footer": {}, "form": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"header": {}, "hgroup": {}, "hr": {}, "main": {}, "menu": {}, "nav": {}, "ol": {},
	"p": {}, "pre": {}, "section": {}, "table": {}, "ul": {}, "canvas": {}, "colgroup": {},
	"dd": {}, "body": {}, "dt": {}, "html": {}, "iframe": {}, "li": {}, "legend": {},
	"math": {}, "map": {}, "noscript": {}, "output": {}, "object": {}, "option": {},
	"progress": {}, "script": {}, "style": {}, "summary": {}, "tbody": {}, "td": {},
	"textarea": {}, "tfoot": {}, "th": {}, "thead": {}, "tr": {}, "video": {}, "center": {},
}

// IsBlockLevel reports whether tag is laid out as a block.
func IsBlockLevel(tag string) bool {
	_, ok := blockLevel[tag]
	return ok
}

// Prettify puts line breaks between block elements: a block whose first
// child is a block opens with a newline, and every block is followed by
// one. Line breaks also follow <br> and close code blocks.
func Prettify(root *node.Node) {
	prettify(root)
	root.Walk(func(n *node.Node) bool {
		switch n.Tag {
		case "br":
			if blank(n.Tail) {
				n.Tail = "\n"
			} else {
				n.Tail = "\n" + n.Tail
			}
		case "pre":
			if n.Len() > 0 && n.Children[0].Tag == "code" {
				code := n.Children[0]
				if code.Len() == 0 {
					code.Text = strings.TrimRight(code.Text, " \t\n") + "\n"
				}
			}
		}
		return true
	})
}

func prettify(n *node.Node) {
	if IsBlockLevel(n.Tag) && n.Tag != "pre" && n.Tag != "code" {
		if blank(n.Text) && n.Len() > 0 && IsBlockLevel(n.Children[0].Tag) {
			n.Text = "\n"
		}
		for _, c := range n.Children {
			if IsBlockLevel(c.Tag) {
				prettify(c)
			}
		}
	}
	if blank(n.Tail) {
		n.Tail = "\n"
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
