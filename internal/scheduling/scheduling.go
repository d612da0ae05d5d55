// Package scheduling wires the catalog, group construction, collision index
// and enumerator together into the single pull-based assignment stream that
// cmd/scheduler and cmd/server both consume. Neither caller touches
// internal/collision or internal/enumerator directly; they ask for a
// Pipeline and pull filtered assignments from it.
package scheduling

import (
	"github.com/schedgen/schedgen/internal/catalog"
	"github.com/schedgen/schedgen/internal/collision"
	"github.com/schedgen/schedgen/internal/enumerator"
	"github.com/schedgen/schedgen/internal/filter"
	"github.com/schedgen/schedgen/internal/groups"
)

// Request names the subject partition and collision exceptions a caller
// supplies, independent of where those values came from (code-set files on
// the CLI, a JSON body on the server).
type Request struct {
	Available   []catalog.Code
	Mandatory   []catalog.Code
	Blacklisted []catalog.Code
	Exceptions  []collision.Exception
}

// Pipeline is a prepared, reusable search over one catalog and group
// partition: the expensive O(groups^2 * items^2) collision precomputation
// runs once in Prepare, and Stream can be called repeatedly afterwards with
// different filter bounds without recomputing it.
type Pipeline struct {
	catalog catalog.Catalog
	groups  []collision.Group[catalog.Commission]
	index   collision.Index
}

// Prepare resolves req against cat and precomputes the collision index.
func Prepare(cat catalog.Catalog, req Request) (*Pipeline, error) {
	gs, err := groups.Build(cat, req.Available, req.Mandatory, req.Blacklisted)
	if err != nil {
		return nil, err
	}
	idx := collision.Build(gs, req.Exceptions)
	return &Pipeline{catalog: cat, groups: gs, index: idx}, nil
}

// Resume rebuilds a Pipeline from a previously computed collision.Index,
// skipping collision.Build's pairwise scan entirely. Used on a pkg/cache
// hit: group construction is cheap (it only
// partitions the catalog by code-set membership), so only the collision
// scan itself is worth caching.
func Resume(cat catalog.Catalog, req Request, idx collision.Index) (*Pipeline, error) {
	gs, err := groups.Build(cat, req.Available, req.Mandatory, req.Blacklisted)
	if err != nil {
		return nil, err
	}
	return &Pipeline{catalog: cat, groups: gs, index: idx}, nil
}

// Groups exposes the resolved group list, e.g. so a caller can report group
// keys before any assignment has been pulled.
func (p *Pipeline) Groups() []collision.Group[catalog.Commission] {
	return p.groups
}

// Index exposes the precomputed collision index, e.g. for caching.
func (p *Pipeline) Index() collision.Index {
	return p.index
}

// Stream starts a fresh enumeration over the prepared groups and index,
// filtered by pipeline. Each call begins the search from scratch; the
// Pipeline itself holds no cursor.
func (p *Pipeline) Stream(filters filter.Pipeline) *filter.Stream {
	e := enumerator.New(p.groups, p.index)
	next := func() (filter.Assignment, bool) {
		choices, ok := e.Next()
		if !ok {
			return nil, false
		}
		return p.toAssignment(choices), true
	}
	return filter.NewStream(next, filters)
}

func (p *Pipeline) toAssignment(choices []enumerator.Choice[catalog.Commission]) filter.Assignment {
	out := make(filter.Assignment, len(choices))
	for i, c := range choices {
		entry := filter.Entry{Code: c.Key, Present: c.Present}
		if c.Present {
			subject := p.catalog.Subject(c.Value.SubjectIndex)
			entry.Credits = uint32(subject.Credits)
		}
		out[i] = entry
	}
	return out
}
