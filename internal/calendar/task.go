// Package calendar implements the per-day and per-week schedule algebra:
// sorted task lists, day/week collision, combination, and the
// collision-merging simplification used by commission deduplication.
package calendar

import "github.com/schedgen/schedgen/internal/schedtime"

// Task is a span of time on a single day carrying an opaque payload.
type Task[T any] struct {
	Span    schedtime.Span
	Payload T
}

// NewTask builds a Task.
func NewTask[T any](span schedtime.Span, payload T) Task[T] {
	return Task[T]{Span: span, Payload: payload}
}

// Adder is implemented by payload types that SimplifyWeek can merge when
// collapsing an overlapping cluster of tasks into one.
type Adder[T any] interface {
	Add(T) T
}

// Equaler is implemented by payload types that support structural equality,
// needed to compare two Weeks for commission-optimization grouping.
type Equaler[T any] interface {
	Equal(T) bool
}
