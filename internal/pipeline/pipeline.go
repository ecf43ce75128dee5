// Package pipeline converts Markdown documents to HTML.
//
// A conversion splits off YAML front matter, parses the body into a node
// tree, runs the registered tree processors over it, renders the tree and
// finally runs the post processors over the HTML. Processors are ordered
// by priority, highest first.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
	"git.home.luguber.info/inful/mdcaption/internal/frontmatter"
	"git.home.luguber.info/inful/mdcaption/internal/logfields"
	"git.home.luguber.info/inful/mdcaption/internal/markdown"
	"git.home.luguber.info/inful/mdcaption/internal/metrics"
	"git.home.luguber.info/inful/mdcaption/internal/render"
)

// TreeProcessor rewrites the node tree of a document.
type TreeProcessor interface {
	Name() string
	Run(doc *Document) error
}

// PostProcessor rewrites the rendered HTML of a document.
type PostProcessor interface {
	Name() string
	Run(doc *Document, html string) (string, error)
}

// Extender adds processors to a pipeline.
type Extender interface {
	Extend(p *Pipeline) error
}

// Result is the outcome of one conversion.
type Result struct {
	HTML string
	// Meta is the document's front matter.
	Meta map[string]any
	// Fingerprint identifies the source (front matter and body).
	Fingerprint string
	// Stats holds counters recorded by processors, keyed by processor name.
	Stats map[string]map[string]int
}

// Pipeline converts documents. Configure it before the first conversion;
// afterwards it may be used from several goroutines at once.
type Pipeline struct {
	parser   *markdown.Parser
	tree     *registry
	post     *registry
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMarkdown selects the Markdown dialect.
func WithMarkdown(opts markdown.Options) Option {
	return func(p *Pipeline) {
		p.parser = markdown.NewParser(opts)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// New creates a pipeline without processors.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		parser:   markdown.NewParser(markdown.DefaultOptions()),
		tree:     newRegistry("tree"),
		post:     newRegistry("post"),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Use lets each extender register its processors.
func (p *Pipeline) Use(exts ...Extender) error {
	for _, ext := range exts {
		if err := ext.Extend(p); err != nil {
			return err
		}
	}
	return nil
}

// AddTreeProcessor registers tp at priority.
func (p *Pipeline) AddTreeProcessor(tp TreeProcessor, priority int) error {
	if tp == nil {
		return errors.InternalError("nil tree processor").Build()
	}
	return p.tree.add(tp.Name(), tp, priority)
}

// AddPostProcessor registers pp at priority.
func (p *Pipeline) AddPostProcessor(pp PostProcessor, priority int) error {
	if pp == nil {
		return errors.InternalError("nil post processor").Build()
	}
	return p.post.add(pp.Name(), pp, priority)
}

// HasTreeProcessor reports whether a tree processor named name is registered.
func (p *Pipeline) HasTreeProcessor(name string) bool { return p.tree.has(name) }

// TreeProcessors returns the tree processor names in execution order.
func (p *Pipeline) TreeProcessors() []string {
	names := make([]string, len(p.tree.values))
	for i, v := range p.tree.values {
		names[i] = v.Value.(TreeProcessor).Name()
	}
	return names
}

// PostProcessors returns the post processor names in execution order.
func (p *Pipeline) PostProcessors() []string {
	names := make([]string, len(p.post.values))
	for i, v := range p.post.values {
		names[i] = v.Value.(PostProcessor).Name()
	}
	return names
}

// Convert turns one Markdown source into HTML. ctx is checked between
// stages.
func (p *Pipeline) Convert(ctx context.Context, name string, source []byte) (*Result, error) {
	start := time.Now()
	res, err := p.convert(ctx, name, source)
	p.recorder.ObserveDocumentDuration(time.Since(start))
	if err != nil {
		p.recorder.IncDocumentOutcome(metrics.OutcomeFailed)
		return nil, err
	}
	p.recorder.IncDocumentOutcome(metrics.OutcomeRendered)
	p.logger.Debug("Document converted",
		logfields.Document(name),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return res, nil
}

func (p *Pipeline) convert(ctx context.Context, name string, source []byte) (*Result, error) {
	parts, err := frontmatter.Split(source)
	if err != nil {
		return nil, errors.ParseError("split front matter").WithCause(err).
			WithContext("document", name).
			Build()
	}
	meta, err := frontmatter.ParseYAML(parts.Raw)
	if err != nil {
		return nil, errors.ParseError("parse front matter").WithCause(err).
			WithContext("document", name).
			Build()
	}

	root, err := p.parser.Parse(parts.Body)
	if err != nil {
		return nil, errors.ParseError("parse markdown").WithCause(err).
			WithContext("document", name).
			Build()
	}
	doc := &Document{Name: name, Root: root, Meta: meta}

	for _, v := range p.tree.values {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tp := v.Value.(TreeProcessor)
		t := time.Now()
		if err := tp.Run(doc); err != nil {
			return nil, errors.WrapError(err, errors.CategoryRender, "tree processor failed").
				WithContext("document", name).
				WithContext("processor", tp.Name()).
				Build()
		}
		p.recorder.ObserveProcessorDuration(tp.Name(), time.Since(t))
	}

	html := render.HTML(doc.Root)
	for _, v := range p.post.values {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pp := v.Value.(PostProcessor)
		t := time.Now()
		html, err = pp.Run(doc, html)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryRender, "post processor failed").
				WithContext("document", name).
				WithContext("processor", pp.Name()).
				Build()
		}
		p.recorder.ObserveProcessorDuration(pp.Name(), time.Since(t))
	}

	return &Result{
		HTML:        html,
		Meta:        doc.Meta,
		Fingerprint: Fingerprint(parts),
		Stats:       doc.Stats(),
	}, nil
}

// Fingerprint identifies a split source. Equal fingerprints mean equal
// front matter and body.
func Fingerprint(parts frontmatter.Parts) string {
	return mdfp.CalculateFingerprintFromParts(string(parts.Raw), string(parts.Body))
}
