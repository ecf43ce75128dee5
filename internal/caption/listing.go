package caption

import "git.home.luguber.info/inful/mdcaption/internal/node"

// ListingMatcher captions keyword paragraphs such as "Listing: Example".
// The paragraph itself becomes the content element.
type ListingMatcher struct {
	builder
	kw *keyword
}

// NewListingMatcher validates opts, compiles the caption pattern and
// returns a listing matcher.
func NewListingMatcher(opts Options) (*ListingMatcher, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	kw, err := compileKeyword(opts)
	if err != nil {
		return nil, err
	}
	return &ListingMatcher{builder: builder{opts: opts}, kw: kw}, nil
}

// Match implements Matcher.
func (l *ListingMatcher) Match(candidate, _ *node.Node) (*Match, error) {
	m := l.kw.match(candidate)
	if m == nil {
		return nil, nil
	}
	if m.Empty() && l.opts.CaptionSkipEmpty {
		return nil, ErrEmptyTitle
	}
	return m, nil
}

// BuildContent implements Matcher.
func (l *ListingMatcher) BuildContent(m *Match, number int) *node.Node {
	l.buildContent(m.Target, number, true)
	return m.Target
}

// BuildCaption implements Matcher.
func (l *ListingMatcher) BuildCaption(m *Match, number int) *node.Node {
	return l.buildCaption(m, number)
}

// AddCaption implements Matcher.
func (l *ListingMatcher) AddCaption(content, caption *node.Node) {
	l.addCaption(content, caption)
}
