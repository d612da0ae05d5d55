// Package collision precomputes the pairwise-collision table the enumerator
// prunes against: for every pair of distinct groups and every pair of items
// drawn one from each, whether the items collide, minus any exceptions.
package collision

// Collidable is implemented by group item types (catalog.Commission in
// practice) that can be tested pairwise for a schedule overlap.
type Collidable[T any] interface {
	Collides(T) bool
}

// Group is an ordered, named set of candidate items submitted to the
// enumerator: a Key identifying the catalog entity that produced it
// (typically a subject code), its items in input order, and whether a
// choice from this group is required (Mandatory) or may be skipped.
type Group[T any] struct {
	Key       string
	Items     []T
	Mandatory bool
}

// Node addresses a single item within a named group by its position in that
// group's Items slice.
type Node struct {
	Key       string `json:"key"`
	ItemIndex int    `json:"itemIndex"`
}

func nodeLess(a, b Node) bool {
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	return a.ItemIndex < b.ItemIndex
}

func canon(a, b Node) (Node, Node) {
	if nodeLess(a, b) {
		return a, b
	}
	return b, a
}

// Exception names a pair of items that, despite colliding under the
// schedule algebra, should be treated as non-colliding by the enumerator.
type Exception struct {
	A Node `json:"a"`
	B Node `json:"b"`
}

// Index is the symmetric set of colliding (group key, item index) pairs,
// minus the supplied exceptions. Pairs are stored under a canonical
// (lexicographically smaller) orientation, so each exception only needs
// removing once regardless of the order its two sides are given in.
type Index struct {
	pairs map[Node]map[Node]struct{}
}

// Build precomputes the index over every unordered pair of groups (mandatory
// groups first, then optional, matching the order groups are passed in).
func Build[T Collidable[T]](groups []Group[T], exceptions []Exception) Index {
	idx := Index{pairs: make(map[Node]map[Node]struct{})}
	for a := 0; a < len(groups); a++ {
		for b := a + 1; b < len(groups); b++ {
			ga, gb := groups[a], groups[b]
			for i, x := range ga.Items {
				for j, y := range gb.Items {
					if x.Collides(y) {
						idx.add(Node{Key: ga.Key, ItemIndex: i}, Node{Key: gb.Key, ItemIndex: j})
					}
				}
			}
		}
	}
	for _, ex := range exceptions {
		idx.remove(ex.A, ex.B)
	}
	return idx
}

// Contains reports whether the pair (a, b) collides after exceptions,
// regardless of argument order.
func (idx Index) Contains(a, b Node) bool {
	lo, hi := canon(a, b)
	m, ok := idx.pairs[lo]
	if !ok {
		return false
	}
	_, ok = m[hi]
	return ok
}

func (idx *Index) add(a, b Node) {
	lo, hi := canon(a, b)
	m, ok := idx.pairs[lo]
	if !ok {
		m = make(map[Node]struct{})
		idx.pairs[lo] = m
	}
	m[hi] = struct{}{}
}

func (idx *Index) remove(a, b Node) {
	lo, hi := canon(a, b)
	if m, ok := idx.pairs[lo]; ok {
		delete(m, hi)
	}
}

// Len returns the number of colliding pairs currently in the index.
func (idx Index) Len() int {
	n := 0
	for _, m := range idx.pairs {
		n += len(m)
	}
	return n
}

// Pairs returns every colliding pair currently held by the index, each in
// its canonical (lexicographically smaller A) orientation. Used to
// serialize an already-built Index for an external cache (pkg/cache) so a
// second request against the same catalog and group partition can skip
// Build's O(groups^2 * items^2) scan entirely.
func (idx Index) Pairs() []Exception {
	out := make([]Exception, 0, idx.Len())
	for a, m := range idx.pairs {
		for b := range m {
			out = append(out, Exception{A: a, B: b})
		}
	}
	return out
}

// FromPairs reconstructs an Index from a Pairs dump, without repeating the
// pairwise collision scan.
func FromPairs(pairs []Exception) Index {
	idx := Index{pairs: make(map[Node]map[Node]struct{}, len(pairs))}
	for _, p := range pairs {
		idx.add(p.A, p.B)
	}
	return idx
}
