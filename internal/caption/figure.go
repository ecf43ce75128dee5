package caption

import (
	"strings"

	"git.home.luguber.info/inful/mdcaption/internal/node"
)

// FigureMatcher captions paragraphs that hold nothing but an image, or a
// link wrapping nothing but an image. The image title becomes the caption.
type FigureMatcher struct {
	builder
}

// NewFigureMatcher validates opts and returns a figure matcher.
func NewFigureMatcher(opts Options) (*FigureMatcher, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &FigureMatcher{builder{opts: opts}}, nil
}

// Match implements Matcher.
func (f *FigureMatcher) Match(candidate, _ *node.Node) (*Match, error) {
	if candidate.Tag != "p" || !blank(candidate.Text) || candidate.Len() != 1 {
		return nil, nil
	}
	child := candidate.Children[0]
	if !blank(child.Tail) {
		return nil, nil
	}

	m := &Match{Candidate: candidate, Target: candidate}
	switch child.Tag {
	case "img":
		m.Image = child
	case "a":
		img := child.Find("img")
		if img == nil || child.Len() != 1 || !blank(child.Text) || !blank(img.Tail) {
			return nil, nil
		}
		m.Link, m.Image = child, img
	default:
		return nil, nil
	}

	m.Title = strings.TrimSpace(m.Image.Attr("title"))
	if m.Title == "" && f.opts.CaptionSkipEmpty {
		return nil, ErrEmptyTitle
	}
	return m, nil
}

// BuildContent relabels the paragraph as the figure and re-adopts the image
// (or its link) as the only child.
func (f *FigureMatcher) BuildContent(m *Match, number int) *node.Node {
	f.buildContent(m.Target, number, true)
	adopted := m.Image
	if m.Link != nil {
		adopted = m.Link
	}
	adopted.Tail = "\n"
	m.Target.Append(adopted)
	return m.Target
}

// BuildCaption implements Matcher. The title attribute is stripped from the
// image only; a wrapping link keeps its own title.
func (f *FigureMatcher) BuildCaption(m *Match, number int) *node.Node {
	caption := f.buildCaption(m, number)
	if f.opts.StripTitle && m.Title != "" {
		m.Image.Delete("title")
	}
	return caption
}

// AddCaption implements Matcher.
func (f *FigureMatcher) AddCaption(content, caption *node.Node) {
	f.addCaption(content, caption)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
