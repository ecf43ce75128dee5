package pipeline

import (
	"sort"

	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
)

// registry keeps named processors ordered by priority. Higher priorities
// run first; equal priorities keep their registration order.
type registry struct {
	kind   string
	values []util.PrioritizedValue
	names  map[string]struct{}
}

func newRegistry(kind string) *registry {
	return &registry{kind: kind, names: make(map[string]struct{})}
}

func (r *registry) add(name string, v any, priority int) error {
	if name == "" {
		return errors.ConfigError(r.kind + " processor has no name").Build()
	}
	if _, dup := r.names[name]; dup {
		return errors.ConfigError("duplicate " + r.kind + " processor").
			WithContext("processor", name).
			Build()
	}
	r.names[name] = struct{}{}
	r.values = append(r.values, util.Prioritized(v, priority))
	sort.SliceStable(r.values, func(i, j int) bool {
		return r.values[i].Priority > r.values[j].Priority
	})
	return nil
}

func (r *registry) has(name string) bool {
	_, ok := r.names[name]
	return ok
}
