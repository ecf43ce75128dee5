// Package postprocess holds optional processors that rewrite rendered HTML.
package postprocess

import (
	"github.com/microcosm-cc/bluemonday"

	"git.home.luguber.info/inful/mdcaption/internal/pipeline"
)

// Post processor priorities: sanitising runs before minifying.
const (
	SanitizePriority = 20
	MinifyPriority   = 10
)

// Sanitizer strips markup that is unsafe to publish while keeping the
// elements and attributes captioning produces.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds the user-generated-content policy extended for
// captioned content.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure", "figcaption", "caption", "span", "div")
	p.AllowAttrs("id", "class").Globally()
	p.AllowStyles("caption-side").MatchingEnum("top", "bottom").OnElements("caption")
	p.AllowStyles("text-align").Matching(bluemonday.CellAlign).OnElements("th", "td")
	return &Sanitizer{policy: p}
}

// Name implements pipeline.PostProcessor.
func (s *Sanitizer) Name() string { return "sanitize" }

// Run implements pipeline.PostProcessor.
func (s *Sanitizer) Run(_ *pipeline.Document, html string) (string, error) {
	return s.policy.Sanitize(html), nil
}

// Extend implements pipeline.Extender.
func (s *Sanitizer) Extend(p *pipeline.Pipeline) error {
	return p.AddPostProcessor(s, SanitizePriority)
}
