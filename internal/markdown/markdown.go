// Package markdown parses Markdown into the node tree used by the tree
// processors.
//
// Parsing is delegated to goldmark; the resulting AST is converted into
// nodes whose text and tails carry the whitespace of the final HTML.
package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/mdcaption/internal/node"
)

// HTML block handling modes.
const (
	HTMLBlocksRaw   = "raw"
	HTMLBlocksParse = "parse"
)

// Options controls the Markdown dialect.
type Options struct {
	Tables        bool   `yaml:"tables"`
	Strikethrough bool   `yaml:"strikethrough"`
	Linkify       bool   `yaml:"linkify"`
	Typographer   bool   `yaml:"typographer"`
	// HTMLBlocks is "raw" (emit verbatim) or "parse" (convert into nodes so
	// tree processors can see them).
	HTMLBlocks string `yaml:"html_blocks"`
}

// DefaultOptions returns the dialect used when nothing is configured.
func DefaultOptions() Options {
	return Options{Tables: true, Strikethrough: true, HTMLBlocks: HTMLBlocksRaw}
}

// Parser converts Markdown sources into node trees. It is safe for
// concurrent use.
type Parser struct {
	md   goldmark.Markdown
	opts Options
}

// NewParser builds a parser for the given dialect.
func NewParser(opts Options) *Parser {
	var exts []goldmark.Extender
	if opts.Tables {
		exts = append(exts, extension.Table)
	}
	if opts.Strikethrough {
		exts = append(exts, extension.Strikethrough)
	}
	if opts.Linkify {
		exts = append(exts, extension.Linkify)
	}
	if opts.Typographer {
		exts = append(exts, extension.Typographer)
	}
	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAttribute()),
	)
	return &Parser{md: md, opts: opts}
}

// Parse converts a Markdown body (front matter already removed) into a
// document root.
func (p *Parser) Parse(body []byte) (*node.Node, error) {
	doc := p.md.Parser().Parse(text.NewReader(body))
	c := &converter{src: body, parseHTML: p.opts.HTMLBlocks == HTMLBlocksParse}
	root := node.NewRoot()
	if err := c.blocks(root, doc); err != nil {
		return nil, err
	}
	Prettify(root)
	return root, nil
}
