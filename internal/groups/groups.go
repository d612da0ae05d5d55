// Package groups turns a catalog plus a student's course selection (which
// subjects are available, which are mandatory, which are blacklisted) into
// the ordered, named collision.Group slice the enumerator walks.
package groups

import (
	"sort"

	"github.com/schedgen/schedgen/internal/catalog"
	"github.com/schedgen/schedgen/internal/collision"
	pkgerrors "github.com/schedgen/schedgen/pkg/errors"
)

// Build resolves available/mandatory/blacklisted code sets against cat and
// returns one collision.Group per surviving subject, mandatory subjects
// first (in code order), then optional subjects (in code order). A subject
// named in both mandatory and blacklisted is an InvariantViolation: the
// caller gave contradictory instructions, and Build refuses to guess
// which one wins.
func Build(cat catalog.Catalog, available, mandatory, blacklisted []catalog.Code) ([]collision.Group[catalog.Commission], error) {
	mandatorySet := toSet(mandatory)
	blacklistedSet := toSet(blacklisted)

	for code := range mandatorySet {
		if blacklistedSet[code] {
			return nil, pkgerrors.NewInvariantViolation("subject " + code.String() + " is both mandatory and blacklisted")
		}
	}

	availableSet := toSet(available)

	var mandatoryGroups, optionalGroups []collision.Group[catalog.Commission]
	for _, code := range available {
		if blacklistedSet[code] {
			continue
		}
		subject, _, ok := cat.FindByCode(code)
		if !ok {
			return nil, pkgerrors.NewInvariantViolation("available subject " + code.String() + " is not in the catalog")
		}
		group := collision.Group[catalog.Commission]{
			Key:       code.String(),
			Items:     subject.Commissions,
			Mandatory: mandatorySet[code],
		}
		if group.Mandatory {
			mandatoryGroups = append(mandatoryGroups, group)
		} else {
			optionalGroups = append(optionalGroups, group)
		}
	}

	for code := range mandatorySet {
		if !availableSet[code] {
			return nil, pkgerrors.NewInvariantViolation("mandatory subject " + code.String() + " is not in the available set")
		}
	}

	sortByKey(mandatoryGroups)
	sortByKey(optionalGroups)

	return append(mandatoryGroups, optionalGroups...), nil
}

func toSet(codes []catalog.Code) map[catalog.Code]bool {
	set := make(map[catalog.Code]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

func sortByKey(gs []collision.Group[catalog.Commission]) {
	sort.Slice(gs, func(i, j int) bool { return gs[i].Key < gs[j].Key })
}
