package pipeline

import (
	"maps"

	"git.home.luguber.info/inful/mdcaption/internal/node"
)

// Document is the unit of work handed to processors.
type Document struct {
	// Name identifies the document in logs, usually its path.
	Name string
	// Root is the parsed tree; tree processors mutate it in place.
	Root *node.Node
	// Meta holds the parsed front matter. It is never nil.
	Meta map[string]any

	stats map[string]map[string]int
}

// NewDocument returns a document with an empty root and metadata.
func NewDocument(name string) *Document {
	return &Document{Name: name, Root: node.NewRoot(), Meta: map[string]any{}}
}

// SetStat records per-processor counters, e.g. captions built per kind.
func (d *Document) SetStat(processor string, counts map[string]int) {
	if d.stats == nil {
		d.stats = make(map[string]map[string]int)
	}
	d.stats[processor] = maps.Clone(counts)
}

// Stats returns the counters recorded by processors.
func (d *Document) Stats() map[string]map[string]int {
	out := make(map[string]map[string]int, len(d.stats))
	for k, v := range d.stats {
		out[k] = maps.Clone(v)
	}
	return out
}
