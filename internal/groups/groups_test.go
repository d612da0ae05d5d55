package groups

import (
	"testing"

	"github.com/schedgen/schedgen/internal/catalog"
)

func mustCode(t *testing.T, s string) catalog.Code {
	t.Helper()
	c, err := catalog.ParseCode(s)
	if err != nil {
		t.Fatalf("ParseCode(%q): %v", s, err)
	}
	return c
}

func testCatalog(t *testing.T) catalog.Catalog {
	t.Helper()
	return catalog.Catalog{
		Subjects: []catalog.Subject{
			{Code: mustCode(t, "01.01"), Name: "Algebra", Commissions: []catalog.Commission{
				{Names: []string{"A"}, SubjectIndex: 0},
			}},
			{Code: mustCode(t, "02.01"), Name: "Analysis", Commissions: []catalog.Commission{
				{Names: []string{"A"}, SubjectIndex: 1},
			}},
			{Code: mustCode(t, "03.01"), Name: "Physics", Commissions: []catalog.Commission{
				{Names: []string{"A"}, SubjectIndex: 2},
			}},
		},
	}
}

func TestBuildOrdersMandatoryBeforeOptional(t *testing.T) {
	cat := testCatalog(t)
	available := []catalog.Code{mustCode(t, "01.01"), mustCode(t, "02.01"), mustCode(t, "03.01")}
	mandatory := []catalog.Code{mustCode(t, "02.01")}

	gs, err := Build(cat, available, mandatory, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(gs) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(gs))
	}
	if !gs[0].Mandatory || gs[0].Key != "02.01" {
		t.Errorf("expected the sole mandatory group first, got %+v", gs[0])
	}
	for _, g := range gs[1:] {
		if g.Mandatory {
			t.Errorf("expected only one mandatory group, found %+v", g)
		}
	}
}

func TestBuildExcludesBlacklisted(t *testing.T) {
	cat := testCatalog(t)
	available := []catalog.Code{mustCode(t, "01.01"), mustCode(t, "02.01"), mustCode(t, "03.01")}
	blacklisted := []catalog.Code{mustCode(t, "03.01")}

	gs, err := Build(cat, available, nil, blacklisted)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, g := range gs {
		if g.Key == "03.01" {
			t.Fatal("blacklisted subject should not produce a group")
		}
	}
	if len(gs) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(gs))
	}
}

func TestBuildRejectsMandatoryAndBlacklistedOverlap(t *testing.T) {
	cat := testCatalog(t)
	code := mustCode(t, "01.01")
	available := []catalog.Code{code}

	_, err := Build(cat, available, []catalog.Code{code}, []catalog.Code{code})
	if err == nil {
		t.Fatal("expected an error when a code is both mandatory and blacklisted")
	}
}

func TestBuildRejectsMandatoryNotAvailable(t *testing.T) {
	cat := testCatalog(t)
	available := []catalog.Code{mustCode(t, "01.01")}
	mandatory := []catalog.Code{mustCode(t, "02.01")}

	_, err := Build(cat, available, mandatory, nil)
	if err == nil {
		t.Fatal("expected an error when a mandatory code is not in the available set")
	}
}
