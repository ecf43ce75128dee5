// Package caption turns caption-worthy paragraphs into captioned content.
//
// A Matcher recognises one content kind (figure, table, listing) among the
// direct children of a container node and knows how to build its content
// element and caption element. The Engine scans the children, lets the
// matchers claim candidates in registration order and splices the result
// back into the tree. Numbering state lives in a single Engine.Process call,
// so one Engine can serve many documents, concurrently or not.
package caption

import (
	stderrors "errors"

	"git.home.luguber.info/inful/mdcaption/internal/node"
)

// Candidate-level conditions. The engine resolves all of them locally; they
// never escape Engine.Process.
var (
	// ErrEmptyTitle rejects a candidate without a title when skip-empty is on.
	ErrEmptyTitle = stderrors.New("caption title is empty")
	// ErrMissingSibling rejects a keyword paragraph that has no following
	// element of the expected tag.
	ErrMissingSibling = stderrors.New("expected content element does not follow caption paragraph")
	// ErrMalformedNumber marks an author-supplied number that is not an integer.
	// The match still succeeds with automatic numbering.
	ErrMalformedNumber = stderrors.New("caption number is not an integer")
	// ErrMatcherPanic reports a matcher that panicked while inspecting a candidate.
	ErrMatcherPanic = stderrors.New("caption matcher panicked")
)

// Matcher detects one content kind and builds its captioned form.
//
// Match must not modify the tree. It inspects candidate (and next, the
// sibling that follows it, which may be nil) and returns:
//   - nil, nil when candidate is not of this kind;
//   - nil, err when candidate is of this kind but must be left alone;
//   - a Match otherwise.
//
// The Build and AddCaption methods are only called with a Match the same
// matcher returned, and may then mutate the nodes it references.
type Matcher interface {
	Name() string
	Options() Options
	Match(candidate, next *node.Node) (*Match, error)
	BuildContent(m *Match, number int) *node.Node
	BuildCaption(m *Match, number int) *node.Node
	AddCaption(content, caption *node.Node)
}

// Match is the result of a successful detection. It carries everything the
// build phase needs so matchers hold no per-candidate state.
type Match struct {
	// Candidate is the scanned child that triggered the match.
	Candidate *node.Node
	// Target becomes the content element. It is Candidate itself, or the
	// following sibling when the candidate only carries the caption text.
	Target *node.Node

	// Title is the trimmed caption text.
	Title string
	// Inline holds markup that followed the title inside the candidate;
	// it moves into the caption after the title.
	Inline []*node.Node

	// Number is the author-supplied number, valid when HasNumber is set.
	Number    int
	HasNumber bool
	// NumberErr is set when a number was captured but could not be used.
	NumberErr error

	// Image and Link reference the adopted figure content.
	Image *node.Node
	Link  *node.Node
}

// ConsumesCandidate reports whether the candidate is removed from the tree
// and the caption attached to the following sibling instead.
func (m *Match) ConsumesCandidate() bool {
	return m.Target != m.Candidate
}

// Empty reports whether the match carries no caption text at all.
func (m *Match) Empty() bool {
	return m.Title == "" && len(m.Inline) == 0
}

// NewMatcher builds the built-in matcher for kind with overrides applied.
func NewMatcher(kind string, v Overrides) (Matcher, error) {
	opts, err := DefaultOptions(kind)
	if err != nil {
		return nil, err
	}
	opts = v.Apply(opts)
	switch kind {
	case KindFigure:
		return NewFigureMatcher(opts)
	case KindTable:
		return NewTableMatcher(opts)
	default:
		return NewListingMatcher(opts)
	}
}

func reasonOf(err error) string {
	switch {
	case stderrors.Is(err, ErrEmptyTitle):
		return "empty_title"
	case stderrors.Is(err, ErrMissingSibling):
		return "missing_sibling"
	case stderrors.Is(err, ErrMalformedNumber):
		return "malformed_number"
	case stderrors.Is(err, ErrMatcherPanic):
		return "matcher_panic"
	default:
		return "error"
	}
}
