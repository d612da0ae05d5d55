package catalog

import (
	"sort"
	"testing"

	"github.com/schedgen/schedgen/internal/calendar"
	"github.com/schedgen/schedgen/internal/schedtime"
)

func weekWithMondayTask(subject SubjectIndex, start, end schedtime.Time) calendar.Week[MeetingInfo] {
	w := calendar.EmptyWeek[MeetingInfo]()
	w.Days[calendar.Monday] = calendar.NewDay([]calendar.Task[MeetingInfo]{
		calendar.NewTask(schedtime.MustNewSpan(start, end), NewMeetingInfo(subject, nil)),
	})
	return w
}

// TestSubjectOptimizeMergesEqualSchedules exercises the canonical A/B/C
// optimization scenario from the spec: commissions A and C share a schedule
// and must merge, while B (a distinct schedule) stays separate.
func TestSubjectOptimizeMergesEqualSchedules(t *testing.T) {
	const subjIdx SubjectIndex = 0
	ta, tb, tc := schedtime.MustNew(0, 0), schedtime.MustNew(1, 0), schedtime.MustNew(2, 0)

	subject := Subject{
		Code:    Code{High: 0, Low: 0},
		Name:    "Nombre",
		Credits: 3,
		Commissions: []Commission{
			{Names: []string{"Com A"}, SubjectIndex: subjIdx, Schedule: weekWithMondayTask(subjIdx, ta, tb)},
			{Names: []string{"Com B"}, SubjectIndex: subjIdx, Schedule: weekWithMondayTask(subjIdx, tb, tc)},
			{Names: []string{"Com C"}, SubjectIndex: subjIdx, Schedule: weekWithMondayTask(subjIdx, ta, tb)},
		},
	}

	subject.Optimize()

	if len(subject.Commissions) != 2 {
		t.Fatalf("expected 2 commissions after optimize, got %d: %+v", len(subject.Commissions), subject.Commissions)
	}

	var nameSets [][]string
	for _, c := range subject.Commissions {
		names := append([]string(nil), c.Names...)
		sort.Strings(names)
		nameSets = append(nameSets, names)
	}

	wantA := []string{"Com A", "Com C"}
	wantB := []string{"Com B"}
	foundA, foundB := false, false
	for _, ns := range nameSets {
		if equalStrings(ns, wantA) {
			foundA = true
		}
		if equalStrings(ns, wantB) {
			foundB = true
		}
	}
	if !foundA || !foundB {
		t.Fatalf("expected name groups %v and %v, got %v", wantA, wantB, nameSets)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFindCommissionByID(t *testing.T) {
	subject := Subject{
		Code: Code{High: 1, Low: 1},
		Commissions: []Commission{
			{Names: []string{"A", "B"}},
			{Names: []string{"C"}},
		},
	}
	if _, ok := subject.FindCommissionByID("B"); !ok {
		t.Error("expected to find commission by label B")
	}
	if _, ok := subject.FindCommissionByID("Z"); ok {
		t.Error("did not expect to find commission Z")
	}
}
