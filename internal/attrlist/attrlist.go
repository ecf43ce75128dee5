// Package attrlist applies attribute lists such as `{: #id .class key=value }`
// written in Markdown to the elements they annotate.
//
// A list on the last line of a block (paragraph, list item) applies to the
// block; a list directly after an inline element (an image, a link) applies
// to that element; a list at the end of a heading or table cell applies to
// it. The list text is removed from the document.
package attrlist

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/mdcaption/internal/markdown"
	"git.home.luguber.info/inful/mdcaption/internal/node"
	"git.home.luguber.info/inful/mdcaption/internal/pipeline"
)

const (
	// Priority runs attribute lists before captioning (8), so captions see
	// author-supplied ids and classes.
	Priority = 10
	// ProcessorName is the tree processor registration name.
	ProcessorName = "attr_list"
)

var (
	blockRe  = regexp.MustCompile(`\n[ ]*\{:?[ ]*([^}\n ][^\n]*)[ ]*\}[ ]*$`)
	headerRe = regexp.MustCompile(`[ ]+\{:?[ ]*([^}\n ][^\n]*)[ ]*\}[ ]*$`)
	inlineRe = regexp.MustCompile(`^\{:?[ ]*([^}\n ][^\n]*)[ ]*\}`)

	tokenRe   = regexp.MustCompile(`[^ =]+="[^"]*"|[^ =]+='[^']*'|[^ =]+=[^ =]+|[^ =]+`)
	invalidRe = regexp.MustCompile(`[^A-Za-z0-9_:.\-]`)
)

// Attr is one parsed attribute. Key "." marks a class.
type Attr struct {
	Key   string
	Value string
}

// Parse splits the inside of an attribute list into attributes.
func Parse(list string) []Attr {
	var out []Attr
	for _, tok := range tokenRe.FindAllString(list, -1) {
		k, v, hasValue := strings.Cut(tok, "=")
		switch {
		case hasValue:
			if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
				v = v[1 : len(v)-1]
			}
			out = append(out, Attr{Key: k, Value: v})
		case strings.HasPrefix(tok, "."):
			out = append(out, Attr{Key: ".", Value: tok[1:]})
		case strings.HasPrefix(tok, "#"):
			out = append(out, Attr{Key: "id", Value: tok[1:]})
		default:
			out = append(out, Attr{Key: tok, Value: tok})
		}
	}
	return out
}

// Assign applies the attribute list to el. Classes are added to the ones
// el already has; other keys replace existing values.
func Assign(el *node.Node, list string) {
	for _, a := range Parse(list) {
		if a.Key == "." {
			el.Set("class", node.UnionClasses(el.Attr("class"), a.Value))
			continue
		}
		el.Set(sanitizeName(a.Key), a.Value)
	}
}

func sanitizeName(name string) string {
	name = invalidRe.ReplaceAllString(name, "_")
	if name == "" {
		return "_"
	}
	if c := name[0]; !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_' || c == ':') {
		name = "_" + name
	}
	return name
}

// Apply processes every element below root.
func Apply(root *node.Node) {
	root.Walk(func(el *node.Node) bool {
		if el == root || el.IsRaw() {
			return true
		}
		if markdown.IsBlockLevel(el.Tag) {
			applyBlock(el)
		} else if el.Tail != "" {
			if m := inlineRe.FindStringSubmatchIndex(el.Tail); m != nil {
				Assign(el, el.Tail[m[2]:m[3]])
				el.Tail = el.Tail[m[1]:]
			}
		}
		return true
	})
}

func applyBlock(el *node.Node) {
	re := blockRe
	header := isHeader(el.Tag)
	if header || el.Tag == "dt" || el.Tag == "td" || el.Tag == "th" {
		re = headerRe
	}

	target := &el.Text
	switch {
	case el.Tag == "li" && el.Len() > 0:
		pos := -1
		for i, c := range el.Children {
			if c.Tag == "ul" || c.Tag == "ol" {
				pos = i
				break
			}
		}
		switch {
		case pos < 0:
			target = &el.Children[el.Len()-1].Tail
		case pos > 0:
			target = &el.Children[pos-1].Tail
		}
	case el.Len() > 0:
		target = &el.Children[el.Len()-1].Tail
	}
	if *target == "" {
		target = &el.Text
	}

	s := *target
	m := re.FindStringSubmatchIndex(s)
	if m == nil {
		return
	}
	Assign(el, s[m[2]:m[3]])
	s = s[:m[0]]
	if header {
		s = strings.TrimRight(strings.TrimRight(s, "#"), " \t\n")
	}
	*target = s
}

func isHeader(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

// Processor is the attribute list tree processor.
type Processor struct{}

// Name implements pipeline.TreeProcessor.
func (Processor) Name() string { return ProcessorName }

// Run implements pipeline.TreeProcessor.
func (Processor) Run(doc *pipeline.Document) error {
	Apply(doc.Root)
	return nil
}

// Extension registers the processor with a pipeline.
type Extension struct{}

// Extend implements pipeline.Extender.
func (Extension) Extend(p *pipeline.Pipeline) error {
	return p.AddTreeProcessor(Processor{}, Priority)
}
