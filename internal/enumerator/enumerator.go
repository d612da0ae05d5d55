// Package enumerator performs the group-ordered backtracking search: given
// a precomputed collision.Index and an ordered list of collision.Group, it
// streams every assignment that picks exactly one item from each mandatory
// group, at most one item from each optional group, and contains no
// colliding pair.
//
// The search is iterative, not recursive: an explicit stack of frames
// stands in for the call stack a recursive walk would use, so Next can pull
// one assignment at a time without the caller materializing the whole
// result set or us emulating a generator with goroutines and channels.
package enumerator

import "github.com/schedgen/schedgen/internal/collision"

// Choice is one group's outcome within a single assignment: the group's Key,
// and either its chosen Value (Present true) or nothing (Present false, only
// possible for an optional group).
type Choice[T any] struct {
	Key     string
	Value   T
	Present bool
}

// frame tracks the in-progress search state for one group: the next item
// index to try, and whether the "pick nothing" branch has already been
// produced for this group at this point in the search.
type frame struct {
	itemCursor int
	triedNone  bool
}

// Enumerator is a pull-based iterator over valid assignments. Zero value is
// not usable; construct with New.
type Enumerator[T any] struct {
	groups []collision.Group[T]
	index  collision.Index
	stack  []frame
	chosen []int // chosen[d] is the item index picked at depth d, or -1 for None
}

// New builds an Enumerator over groups using the given precomputed index.
// Groups are walked in the order given; callers that want mandatory
// subjects resolved first should supply groups in that order (see
// internal/groups.Build).
func New[T any](groups []collision.Group[T], index collision.Index) *Enumerator[T] {
	return &Enumerator[T]{
		groups: groups,
		index:  index,
		stack:  []frame{{}},
		chosen: make([]int, 0, len(groups)),
	}
}

func (e *Enumerator[T]) collidesWithChosen(depth, itemIndex int) bool {
	candidate := collision.Node{Key: e.groups[depth].Key, ItemIndex: itemIndex}
	for d, itemIdx := range e.chosen {
		if itemIdx < 0 {
			continue
		}
		prev := collision.Node{Key: e.groups[d].Key, ItemIndex: itemIdx}
		if e.index.Contains(prev, candidate) {
			return true
		}
	}
	return false
}

// Next advances the search and returns the next valid assignment. The
// second return value is false once the search space is exhausted; the
// returned slice should not be retained past the following Next call
// without copying, though in practice each call allocates a fresh one.
func (e *Enumerator[T]) Next() ([]Choice[T], bool) {
	for len(e.stack) > 0 {
		depth := len(e.stack) - 1
		top := &e.stack[depth]
		group := e.groups[depth]

		advanced := false
		for top.itemCursor < len(group.Items) {
			idx := top.itemCursor
			top.itemCursor++
			if !e.collidesWithChosen(depth, idx) {
				e.pushChoice(depth, idx)
				advanced = true
				break
			}
		}
		if !advanced && !group.Mandatory && !top.triedNone {
			top.triedNone = true
			e.pushChoice(depth, -1)
			advanced = true
		}

		if !advanced {
			e.stack = e.stack[:depth]
			e.chosen = e.chosen[:depth]
			continue
		}

		if len(e.chosen) == len(e.groups) {
			return e.assignment(), true
		}
		e.stack = append(e.stack, frame{})
	}
	return nil, false
}

func (e *Enumerator[T]) pushChoice(depth, itemIndex int) {
	if depth < len(e.chosen) {
		e.chosen[depth] = itemIndex
		return
	}
	e.chosen = append(e.chosen, itemIndex)
}

func (e *Enumerator[T]) assignment() []Choice[T] {
	out := make([]Choice[T], len(e.groups))
	for i, g := range e.groups {
		idx := e.chosen[i]
		if idx < 0 {
			out[i] = Choice[T]{Key: g.Key, Present: false}
			continue
		}
		out[i] = Choice[T]{Key: g.Key, Value: g.Items[idx], Present: true}
	}
	return out
}

// Collect drains the enumerator into a slice. Intended for tests and small
// catalogs; production callers should prefer Next so a filter pipeline can
// short-circuit without materializing the whole result set.
func Collect[T any](e *Enumerator[T]) [][]Choice[T] {
	var out [][]Choice[T]
	for {
		a, ok := e.Next()
		if !ok {
			return out
		}
		out = append(out, a)
	}
}
