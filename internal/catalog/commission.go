package catalog

import (
	"sort"

	"github.com/schedgen/schedgen/internal/calendar"
)

// SubjectIndex is a non-owning reference to a Subject within a Catalog's
// arena, replacing the source's reference-counted back-pointer: every
// Commission and MeetingInfo names its owner by index instead of by a
// cyclic strong/weak pointer pair.
type SubjectIndex int

// MeetingInfo is the payload carried by every Task in a Commission's
// schedule: the owning subject (by index) and the set of buildings the
// meeting is held in.
type MeetingInfo struct {
	SubjectIndex SubjectIndex
	Buildings    []string
}

// NewMeetingInfo builds a MeetingInfo with a sorted, deduplicated building set.
func NewMeetingInfo(subject SubjectIndex, buildings []string) MeetingInfo {
	return MeetingInfo{SubjectIndex: subject, Buildings: sortDedup(buildings)}
}

// Add unions two meeting infos' building sets. Both must belong to the same
// subject; calendar.SimplifyWeek only ever merges tasks drawn from the same
// commission, so this always holds.
func (m MeetingInfo) Add(other MeetingInfo) MeetingInfo {
	if m.SubjectIndex != other.SubjectIndex {
		panic("catalog: cannot merge meeting info across different subjects")
	}
	merged := append(append([]string(nil), m.Buildings...), other.Buildings...)
	return MeetingInfo{SubjectIndex: m.SubjectIndex, Buildings: sortDedup(merged)}
}

// Equal compares only the building set, matching the source's TaskInfo
// equality (which ignores the subject back-reference).
func (m MeetingInfo) Equal(other MeetingInfo) bool {
	if len(m.Buildings) != len(other.Buildings) {
		return false
	}
	for i := range m.Buildings {
		if m.Buildings[i] != other.Buildings[i] {
			return false
		}
	}
	return true
}

func sortDedup(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Commission is one section of a Subject: a set of section-label names, a
// back-reference to the owning Subject, and the weekly schedule.
type Commission struct {
	Names        []string
	SubjectIndex SubjectIndex
	Schedule     calendar.Week[MeetingInfo]
}

// Collides reports whether the commissions' schedules overlap.
func (c Commission) Collides(other Commission) bool {
	return c.Schedule.Collides(other.Schedule)
}

// Equal compares commissions by (names as a multiset, schedule) — the
// forward-compatible choice documented for post-optimization output.
func (c Commission) Equal(other Commission) bool {
	return sameMultiset(c.Names, other.Names) && calendar.EqualWeek(c.Schedule, other.Schedule)
}

func sameMultiset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		counts[s]--
	}
	for _, n := range counts {
		if n != 0 {
			return false
		}
	}
	return true
}

// Merge unions two commissions' label lists; both must share subject and
// schedule (the caller, Subject.Optimize, only merges commissions it has
// already found to have equal simplified schedules).
func Merge(a, b Commission) Commission {
	if a.SubjectIndex != b.SubjectIndex {
		panic("catalog: cannot merge commissions across different subjects")
	}
	names := append(append([]string(nil), a.Names...), b.Names...)
	return Commission{Names: names, SubjectIndex: a.SubjectIndex, Schedule: a.Schedule}
}
