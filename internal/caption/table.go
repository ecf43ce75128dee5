package caption

import "git.home.luguber.info/inful/mdcaption/internal/node"

// TableMatcher captions the table that immediately follows a keyword
// paragraph such as "Table: Example". The paragraph is consumed: its
// attributes move onto the table and the paragraph leaves the tree.
type TableMatcher struct {
	builder
	kw *keyword
}

// NewTableMatcher validates opts, compiles the caption pattern and returns
// a table matcher.
func NewTableMatcher(opts Options) (*TableMatcher, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	kw, err := compileKeyword(opts)
	if err != nil {
		return nil, err
	}
	return &TableMatcher{builder: builder{opts: opts}, kw: kw}, nil
}

// Match implements Matcher. The match is void unless next is a table.
func (t *TableMatcher) Match(candidate, next *node.Node) (*Match, error) {
	m := t.kw.match(candidate)
	if m == nil {
		return nil, nil
	}
	if m.Empty() && t.opts.CaptionSkipEmpty {
		return nil, ErrEmptyTitle
	}
	if next == nil || next.Tag != t.opts.ContentTag {
		return nil, ErrMissingSibling
	}
	m.Target = next
	return m, nil
}

// BuildContent merges the caption paragraph's attributes into the table.
// Classes are unioned with the paragraph's first; any other attribute the
// paragraph carries, id included, wins over the table's.
func (t *TableMatcher) BuildContent(m *Match, number int) *node.Node {
	table := m.Target
	for _, k := range m.Candidate.Keys() {
		v := m.Candidate.Attr(k)
		if k == "class" {
			v = node.UnionClasses(v, table.Attr("class"))
		}
		table.Set(k, v)
	}
	t.buildContent(table, number, false)
	return table
}

// BuildCaption implements Matcher.
func (t *TableMatcher) BuildCaption(m *Match, number int) *node.Node {
	return t.buildCaption(m, number)
}

// AddCaption always puts the caption first in the table, since browsers
// mishandle a caption that is not the table's first child. Bottom placement
// is expressed through caption-side styling instead.
func (t *TableMatcher) AddCaption(content, caption *node.Node) {
	if !t.opts.CaptionTop {
		caption.Set("style", "caption-side:bottom")
	}
	content.Insert(0, caption)
}
