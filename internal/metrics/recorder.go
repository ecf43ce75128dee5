package metrics

import "time"

// OutcomeLabel enumerates document outcomes for counters.
type OutcomeLabel string

const (
	OutcomeRendered  OutcomeLabel = "rendered"
	OutcomeUnchanged OutcomeLabel = "unchanged"
	OutcomeFailed    OutcomeLabel = "failed"
)

// Recorder defines observability hooks for document rendering and
// captioning. Captioned and Recovered match the caption engine's observer
// so a Recorder can be handed to the engine directly. Implementations must
// be safe for concurrent use.
type Recorder interface {
	ObserveDocumentDuration(d time.Duration)
	ObserveProcessorDuration(processor string, d time.Duration)
	IncDocumentOutcome(outcome OutcomeLabel)
	Captioned(kind string, number int)
	Recovered(kind, reason string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveDocumentDuration(time.Duration)          {}
func (NoopRecorder) ObserveProcessorDuration(string, time.Duration) {}
func (NoopRecorder) IncDocumentOutcome(OutcomeLabel)                {}
func (NoopRecorder) Captioned(string, int)                          {}
func (NoopRecorder) Recovered(string, string)                       {}
