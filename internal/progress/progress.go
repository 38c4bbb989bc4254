// Package progress carries (percent, phase) updates from the conversion
// pipeline to whoever is watching.
package progress

import (
	"fmt"
	"math"
	"sync"
)

// Phase strings shown to the user.
const (
	PhaseLoading    = "Loading PDF..."
	PhaseFinalizing = "Finalizing PPTX file..."
	PhaseComplete   = "Conversion Complete!"
)

// Percent milestones.
const (
	PagesShare      = 90
	PackagingStart  = 95
	CompletePercent = 100
)

// PhaseFound announces the page count once the document is open.
func PhaseFound(pages int) string {
	return fmt.Sprintf("Found %d pages. Starting conversion...", pages)
}

// PhasePage describes the page being processed.
func PhasePage(page, total int) string {
	return fmt.Sprintf("Processing page %d of %d", page, total)
}

// PagePercent is round(page/total × 90).
func PagePercent(page, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(page) / float64(total) * PagesShare))
}

// Sink receives progress updates synchronously, in emission order.
type Sink interface {
	Report(percent int, phase string)
}

// Func adapts a function to a Sink.
type Func func(percent int, phase string)

// Report calls f.
func (f Func) Report(percent int, phase string) { f(percent, phase) }

// Discard ignores every update.
var Discard Sink = Func(func(int, string) {})

// Event is one recorded update.
type Event struct {
	Percent int
	Phase   string
}

// Recorder keeps every update it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Report records an update.
func (r *Recorder) Report(percent int, phase string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Percent: percent, Phase: phase})
}

// Events returns a copy of the recorded updates.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Last returns the most recent update.
func (r *Recorder) Last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1], true
}

// Reporter sits between the pipeline and a Sink. It clamps percentages to
// [0, 100], never lets them go backwards, and keeps 100 for success only.
type Reporter struct {
	sink     Sink
	percent  int
	phase    string
	reported bool
}

// NewReporter wraps sink. A nil sink discards updates.
func NewReporter(sink Sink) *Reporter {
	if sink == nil {
		sink = Discard
	}
	return &Reporter{sink: sink}
}

// Update forwards a non-final update. Percentages at or above 100 are held at 99.
func (r *Reporter) Update(percent int, phase string) {
	if percent >= CompletePercent {
		percent = CompletePercent - 1
	}
	r.emit(percent, phase)
}

// Complete forwards the terminal success update.
func (r *Reporter) Complete(phase string) {
	r.emit(CompletePercent, phase)
}

// Fail forwards the terminal failure phase at the last reported percentage.
func (r *Reporter) Fail(phase string) {
	r.emit(r.percent, phase)
}

// Percent returns the last reported percentage.
func (r *Reporter) Percent() int {
	return r.percent
}

// Phase returns the last reported phase.
func (r *Reporter) Phase() string {
	return r.phase
}

// Reported reports whether anything has been emitted.
func (r *Reporter) Reported() bool {
	return r.reported
}

func (r *Reporter) emit(percent int, phase string) {
	if percent < 0 {
		percent = 0
	}
	if percent > CompletePercent {
		percent = CompletePercent
	}
	if percent < r.percent {
		percent = r.percent
	}
	r.percent = percent
	r.phase = phase
	r.reported = true
	r.sink.Report(percent, phase)
}
