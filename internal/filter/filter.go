// Package filter provides lazy, composable post-filters over the
// enumerator's assignment stream: reject assignments that don't meet a
// subject-count, credit-count, or mandatory-presence constraint, without
// ever transforming an assignment or materializing the full result set.
package filter

// Entry is one group's outcome as seen by a filter: the subject code that
// produced the group, its credit weight, and whether a commission was
// actually chosen for it.
type Entry struct {
	Code    string
	Credits uint32
	Present bool
}

// Assignment is a full choice across every group, in group order.
type Assignment []Entry

// Range is an inclusive/exclusive bound pair over an integer count, mirroring
// the source's RangeBounds: either side may be open, closed, or unbounded.
type Range struct {
	hasMin, minIncl bool
	min             int
	hasMax, maxIncl bool
	max             int
}

// Any accepts every count.
func Any() Range { return Range{} }

// Inclusive builds a closed range [lo, hi].
func Inclusive(lo, hi int) Range {
	return Range{hasMin: true, min: lo, minIncl: true, hasMax: true, max: hi, maxIncl: true}
}

// HalfOpen builds a range [lo, hi).
func HalfOpen(lo, hi int) Range {
	return Range{hasMin: true, min: lo, minIncl: true, hasMax: true, max: hi, maxIncl: false}
}

// AtLeast builds a range [lo, +inf).
func AtLeast(lo int) Range {
	return Range{hasMin: true, min: lo, minIncl: true}
}

// AtMost builds a range (-inf, hi].
func AtMost(hi int) Range {
	return Range{hasMax: true, max: hi, maxIncl: true}
}

// Contains reports whether v falls within the range.
func (r Range) Contains(v int) bool {
	if r.hasMin {
		if r.minIncl {
			if v < r.min {
				return false
			}
		} else if v <= r.min {
			return false
		}
	}
	if r.hasMax {
		if r.maxIncl {
			if v > r.max {
				return false
			}
		} else if v >= r.max {
			return false
		}
	}
	return true
}

// Filter is a single rejection predicate over an Assignment.
type Filter interface {
	Accept(Assignment) bool
}

// SubjectCount accepts an assignment iff the number of Present entries
// falls within Range.
type SubjectCount struct {
	Range Range
}

// Accept implements Filter.
func (f SubjectCount) Accept(a Assignment) bool {
	n := 0
	for _, e := range a {
		if e.Present {
			n++
		}
	}
	return f.Range.Contains(n)
}

// CreditCount accepts an assignment iff the sum of Present entries' Credits
// falls within Range.
type CreditCount struct {
	Range Range
}

// Accept implements Filter.
func (f CreditCount) Accept(a Assignment) bool {
	sum := 0
	for _, e := range a {
		if e.Present {
			sum += int(e.Credits)
		}
	}
	return f.Range.Contains(sum)
}

// MandatoryPresence accepts an assignment iff every code in Codes appears
// among its Present entries. Redundant when the caller already placed
// those subjects in mandatory groups, but useful applied post hoc (e.g.
// against a cached, already-filtered assignment set).
type MandatoryPresence struct {
	Codes []string
}

// Accept implements Filter.
func (f MandatoryPresence) Accept(a Assignment) bool {
	present := make(map[string]bool, len(a))
	for _, e := range a {
		if e.Present {
			present[e.Code] = true
		}
	}
	for _, code := range f.Codes {
		if !present[code] {
			return false
		}
	}
	return true
}

// Pipeline composes filters by chained rejection: an assignment survives
// iff every filter accepts it. Filters run in the order given, so callers
// should order cheap filters first.
type Pipeline struct {
	filters []Filter
}

// New builds a Pipeline from the given filters, in evaluation order.
func New(filters ...Filter) Pipeline {
	return Pipeline{filters: filters}
}

// Accept reports whether a survives every filter in the pipeline.
func (p Pipeline) Accept(a Assignment) bool {
	for _, f := range p.filters {
		if !f.Accept(a) {
			return false
		}
	}
	return true
}

// NextFunc pulls the next item from an upstream assignment source, with ok
// false once the source is exhausted. *enumerator.Enumerator[T] satisfies
// this shape once its Choice slices are adapted to Assignment by the caller.
type NextFunc func() (Assignment, bool)

// Stream lazily filters an upstream NextFunc, pulling and discarding
// rejected assignments until it finds one the Pipeline accepts, without
// ever buffering more than one assignment at a time.
type Stream struct {
	next     NextFunc
	pipeline Pipeline
}

// NewStream wraps next with pipeline.
func NewStream(next NextFunc, pipeline Pipeline) *Stream {
	return &Stream{next: next, pipeline: pipeline}
}

// Next returns the next assignment that survives the pipeline, or false
// once upstream is exhausted.
func (s *Stream) Next() (Assignment, bool) {
	for {
		a, ok := s.next()
		if !ok {
			return nil, false
		}
		if s.pipeline.Accept(a) {
			return a, true
		}
	}
}
