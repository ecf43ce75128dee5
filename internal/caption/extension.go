package caption

import (
	"slices"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
	"git.home.luguber.info/inful/mdcaption/internal/logfields"
	"git.home.luguber.info/inful/mdcaption/internal/pipeline"
)

const (
	// Priority places captioning after attribute lists (10) so that ids and
	// classes written by authors are already on the nodes.
	Priority = 8
	// ProcessorName is the tree processor registration name.
	ProcessorName = "caption"
	// MetaKey is the front matter key holding per-document overrides.
	MetaKey = "captions"
)

// Config selects and tunes the matchers. It is the `captions:` section of
// the configuration file and of a document's front matter.
type Config struct {
	// Order is the registration order. Kinds left out are disabled; an
	// empty Order means all kinds in their default order.
	Order   []string  `yaml:"order,omitempty"`
	Figure  Overrides `yaml:"figure,omitempty"`
	Table   Overrides `yaml:"table,omitempty"`
	Listing Overrides `yaml:"listing,omitempty"`
}

// For returns the overrides of kind.
func (c Config) For(kind string) Overrides {
	switch kind {
	case KindFigure:
		return c.Figure
	case KindTable:
		return c.Table
	case KindListing:
		return c.Listing
	}
	return Overrides{}
}

// Kinds returns the effective registration order.
func (c Config) Kinds() []string {
	if len(c.Order) == 0 {
		return slices.Clone(Kinds)
	}
	return slices.Clone(c.Order)
}

// Merge returns c overlaid with every setting made in other.
func (c Config) Merge(other Config) Config {
	if len(other.Order) > 0 {
		c.Order = slices.Clone(other.Order)
	}
	c.Figure = c.Figure.Merge(other.Figure)
	c.Table = c.Table.Merge(other.Table)
	c.Listing = c.Listing.Merge(other.Listing)
	return c
}

// NewMatchers builds the matchers named by cfg in registration order.
func NewMatchers(cfg Config) ([]Matcher, error) {
	kinds := cfg.Kinds()
	matchers := make([]Matcher, 0, len(kinds))
	for _, kind := range kinds {
		m, err := NewMatcher(kind, cfg.For(kind))
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

// Extension registers captioning with a pipeline.
type Extension struct {
	cfg    Config
	opts   []EngineOption
	engine *Engine
}

// NewExtension builds the matchers and the engine for cfg. Configuration
// errors surface here, before any document is processed.
func NewExtension(cfg Config, opts ...EngineOption) (*Extension, error) {
	engine, err := newEngine(cfg, opts)
	if err != nil {
		return nil, err
	}
	return &Extension{cfg: cfg, opts: opts, engine: engine}, nil
}

func newEngine(cfg Config, opts []EngineOption) (*Engine, error) {
	matchers, err := NewMatchers(cfg)
	if err != nil {
		return nil, err
	}
	return NewEngine(matchers, opts...)
}

// Engine returns the engine used for documents without overrides.
func (x *Extension) Engine() *Engine { return x.engine }

// Extend implements pipeline.Extender.
func (x *Extension) Extend(p *pipeline.Pipeline) error {
	return p.AddTreeProcessor(&processor{ext: x}, Priority)
}

// engineFor returns the engine for doc, honouring front matter overrides.
func (x *Extension) engineFor(doc *pipeline.Document) *Engine {
	raw, ok := doc.Meta[MetaKey]
	if !ok || raw == nil {
		return x.engine
	}
	override, err := decodeConfig(raw)
	if err == nil {
		var engine *Engine
		engine, err = newEngine(x.cfg.Merge(override), x.opts)
		if err == nil {
			return engine
		}
	}
	x.engine.logger.Warn("Ignoring caption overrides in front matter",
		logfields.Document(doc.Name),
		logfields.Error(err))
	return x.engine
}

func decodeConfig(raw any) (Config, error) {
	var cfg Config
	b, err := yaml.Marshal(raw)
	if err != nil {
		return cfg, errors.WrapError(err, errors.CategoryValidation, "encode caption overrides").Build()
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.WrapError(err, errors.CategoryValidation, "decode caption overrides").Build()
	}
	return cfg, nil
}

type processor struct {
	ext *Extension
}

func (p *processor) Name() string { return ProcessorName }

func (p *processor) Run(doc *pipeline.Document) error {
	engine := p.ext.engineFor(doc)
	res := engine.Process(doc.Root)
	doc.SetStat(ProcessorName, res.Counts)
	if total := res.Total(); total > 0 {
		engine.logger.Debug("Captions applied",
			logfields.Document(doc.Name),
			logfields.Count(total))
	}
	return nil
}
