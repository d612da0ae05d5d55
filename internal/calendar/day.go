package calendar

import (
	"sort"

	"github.com/schedgen/schedgen/internal/schedtime"
)

// Day holds the tasks scheduled on one weekday, kept sorted by span start.
// HasCollisions caches whether any two adjacent tasks in that sort overlap;
// every mutating operation below recomputes it so it always reflects reality.
type Day[T any] struct {
	tasks         []Task[T]
	hasCollisions bool
}

// NewDay sorts tasks by span and computes the collision cache in one pass.
func NewDay[T any](tasks []Task[T]) Day[T] {
	sorted := append([]Task[T](nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Compare(sorted[j].Span) < 0
	})
	return Day[T]{tasks: sorted, hasCollisions: adjacentCollisions(sorted)}
}

func adjacentCollisions[T any](sorted []Task[T]) bool {
	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].Span.Collides(sorted[i+1].Span) {
			return true
		}
	}
	return false
}

// Tasks returns the day's tasks in sorted order. Callers must not mutate the
// returned slice.
func (d Day[T]) Tasks() []Task[T] {
	return d.tasks
}

// HasCollisions reports whether the day has any internal overlap.
func (d Day[T]) HasCollisions() bool {
	return d.hasCollisions
}

// Collides reports whether d collides with other: true if either has
// internal collisions, or if any cross pair (one task from each) collides.
// The cross-pair check is a linear merge-walk, O(n+m), valid once both task
// lists are individually collision-free.
func (d Day[T]) Collides(other Day[T]) bool {
	if d.hasCollisions || other.hasCollisions {
		return true
	}
	i, j := 0, 0
	for i < len(d.tasks) && j < len(other.tasks) {
		a, b := d.tasks[i], other.tasks[j]
		if a.Span.Collides(b.Span) {
			return true
		}
		if a.Span.End.Compare(b.Span.End) <= 0 {
			i++
		} else {
			j++
		}
	}
	return false
}

// Combine produces the order-preserving merge of d and other by span start;
// the merge is stable, with d's tasks placed first on a tied start.
func (d Day[T]) Combine(other Day[T]) Day[T] {
	merged := make([]Task[T], 0, len(d.tasks)+len(other.tasks))
	i, j := 0, 0
	for i < len(d.tasks) && j < len(other.tasks) {
		if other.tasks[j].Span.Start.Compare(d.tasks[i].Span.Start) < 0 {
			merged = append(merged, other.tasks[j])
			j++
		} else {
			merged = append(merged, d.tasks[i])
			i++
		}
	}
	merged = append(merged, d.tasks[i:]...)
	merged = append(merged, other.tasks[j:]...)
	return Day[T]{tasks: merged, hasCollisions: adjacentCollisions(merged)}
}

// Simplify collapses each maximal run of colliding tasks into a single task
// whose span is the union (min start, max end) and whose payload is the sum
// of the cluster's payloads. Touching tasks (end == start) are never merged.
func Simplify[T Adder[T]](d Day[T]) Day[T] {
	tasks := d.tasks
	if len(tasks) == 0 {
		return NewDay[T](nil)
	}
	out := make([]Task[T], 0, len(tasks))
	cluster := tasks[0]
	for _, t := range tasks[1:] {
		if cluster.Span.Collides(t.Span) {
			end := cluster.Span.End
			if t.Span.End.Compare(end) > 0 {
				end = t.Span.End
			}
			span, err := schedtime.NewSpan(cluster.Span.Start, end)
			if err != nil {
				panic(err)
			}
			cluster = Task[T]{Span: span, Payload: cluster.Payload.Add(t.Payload)}
		} else {
			out = append(out, cluster)
			cluster = t
		}
	}
	out = append(out, cluster)
	return NewDay(out)
}

// EqualDay reports structural equality: same number of tasks, same spans in
// the same order, and payload equality per task.
func EqualDay[T Equaler[T]](a, b Day[T]) bool {
	at, bt := a.tasks, b.tasks
	if len(at) != len(bt) {
		return false
	}
	for i := range at {
		if at[i].Span != bt[i].Span {
			return false
		}
		if !at[i].Payload.Equal(bt[i].Payload) {
			return false
		}
	}
	return true
}
