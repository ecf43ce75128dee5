package postprocess

import (
	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"

	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
	"git.home.luguber.info/inful/mdcaption/internal/pipeline"
)

const mediaTypeHTML = "text/html"

// Minifier removes insignificant whitespace from the rendered HTML. End
// tags are kept so the output stays readable by strict consumers.
type Minifier struct {
	m *minify.M
}

// NewMinifier returns an HTML minifier.
func NewMinifier() *Minifier {
	m := minify.New()
	m.Add(mediaTypeHTML, &mhtml.Minifier{KeepEndTags: true, KeepDocumentTags: true})
	return &Minifier{m: m}
}

// Name implements pipeline.PostProcessor.
func (m *Minifier) Name() string { return "minify" }

// Run implements pipeline.PostProcessor.
func (m *Minifier) Run(doc *pipeline.Document, html string) (string, error) {
	out, err := m.m.String(mediaTypeHTML, html)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryRender, "minify html").
			WithContext("document", doc.Name).
			Build()
	}
	return out, nil
}

// Extend implements pipeline.Extender.
func (m *Minifier) Extend(p *pipeline.Pipeline) error {
	return p.AddPostProcessor(m, MinifyPriority)
}
