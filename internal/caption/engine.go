package caption

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
	"git.home.luguber.info/inful/mdcaption/internal/logfields"
	"git.home.luguber.info/inful/mdcaption/internal/node"
)

// Observer receives engine events. Implementations must be safe for
// concurrent use when the engine is shared across goroutines.
type Observer interface {
	// Captioned is called once per caption built, with the displayed number.
	Captioned(kind string, number int)
	// Recovered is called when a candidate-level failure was absorbed.
	Recovered(kind, reason string)
}

type noopObserver struct{}

func (noopObserver) Captioned(string, int)    {}
func (noopObserver) Recovered(string, string) {}

// Result summarises one Process call.
type Result struct {
	// Counts holds the number of captions built per kind.
	Counts map[string]int
}

// Total returns the number of captions built across all kinds.
func (r Result) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for per-candidate diagnostics.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers an observer for caption and recovery events.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// Engine scans the direct children of a container and splices captions in.
// An Engine is immutable after construction; counters live in Process.
type Engine struct {
	matchers []Matcher
	logger   *slog.Logger
	observer Observer
}

// NewEngine returns an engine trying matchers in the given order.
func NewEngine(matchers []Matcher, opts ...EngineOption) (*Engine, error) {
	seen := make(map[string]struct{}, len(matchers))
	for i, m := range matchers {
		if m == nil {
			return nil, errors.InternalError(fmt.Sprintf("matcher %d is nil", i)).Build()
		}
		name := m.Name()
		if name == "" {
			return nil, errors.ConfigError("matcher name must not be empty").
				WithContext("index", i).
				Build()
		}
		if _, dup := seen[name]; dup {
			return nil, errors.ConfigError("duplicate matcher name").
				WithContext("kind", name).
				Build()
		}
		seen[name] = struct{}{}
	}

	e := &Engine{
		matchers: append([]Matcher(nil), matchers...),
		logger:   slog.Default(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Matchers returns the registered matcher names in evaluation order.
func (e *Engine) Matchers() []string {
	names := make([]string, len(e.matchers))
	for i, m := range e.matchers {
		names[i] = m.Name()
	}
	return names
}

// Process captions the direct children of root in place. Candidate-level
// failures never abort the pass: the candidate is left as it was.
func (e *Engine) Process(root *node.Node) Result {
	counters := make(map[string]int, len(e.matchers))
	res := Result{Counts: make(map[string]int, len(e.matchers))}
	if root == nil {
		return res
	}

	for i := 0; i < root.Len(); i++ {
		child := root.Children[i]
		var next *node.Node
		if i+1 < root.Len() {
			next = root.Children[i+1]
		}

		for _, m := range e.matchers {
			match, err := e.try(m, child, next)
			if err != nil {
				e.recovered(m.Name(), err)
				continue
			}
			if match == nil {
				continue
			}

			counters[m.Name()]++
			number := counters[m.Name()]
			if match.NumberErr != nil {
				e.recovered(m.Name(), match.NumberErr)
			} else if m.Options().NumberingPreserve && match.HasNumber {
				number = match.Number
			}

			e.splice(m, match, number)
			if match.ConsumesCandidate() {
				// The content element now sits at i and is stepped over.
				root.RemoveAt(i)
			}

			res.Counts[m.Name()]++
			e.observer.Captioned(m.Name(), number)
			e.logger.Debug("Caption built",
				logfields.Kind(m.Name()),
				logfields.Number(number),
				slog.String("title", match.Title))
			break
		}
	}
	return res
}

func (e *Engine) splice(m Matcher, match *Match, number int) {
	caption := m.BuildCaption(match, number)
	content := m.BuildContent(match, number)
	m.AddCaption(content, caption)
}

// try runs one detection and turns a panicking matcher into a non-match.
func (e *Engine) try(m Matcher, candidate, next *node.Node) (match *Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			match = nil
			err = fmt.Errorf("%w: %v", ErrMatcherPanic, r)
		}
	}()
	return m.Match(candidate, next)
}

func (e *Engine) recovered(kind string, err error) {
	reason := reasonOf(err)
	e.observer.Recovered(kind, reason)
	if stderrors.Is(err, ErrEmptyTitle) || stderrors.Is(err, ErrMissingSibling) {
		e.logger.Debug("Caption candidate skipped",
			logfields.Kind(kind),
			logfields.Reason(reason))
		return
	}
	e.logger.Warn("Caption candidate recovered",
		logfields.Kind(kind),
		logfields.Reason(reason),
		logfields.Error(err))
}
