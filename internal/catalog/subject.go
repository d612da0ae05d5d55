package catalog

import "github.com/schedgen/schedgen/internal/calendar"

// Subject is a catalog entity offered through one or more Commissions.
type Subject struct {
	Code        Code
	Name        string
	Credits     uint8
	Commissions []Commission
}

// Equal compares code, name, credits and commissions in order.
func (s Subject) Equal(other Subject) bool {
	if s.Code != other.Code || s.Name != other.Name || s.Credits != other.Credits {
		return false
	}
	if len(s.Commissions) != len(other.Commissions) {
		return false
	}
	for i := range s.Commissions {
		if !s.Commissions[i].Equal(other.Commissions[i]) {
			return false
		}
	}
	return true
}

// FindCommissionByID returns the first commission whose label list contains id.
func (s Subject) FindCommissionByID(id string) (Commission, bool) {
	for _, com := range s.Commissions {
		for _, name := range com.Names {
			if name == id {
				return com, true
			}
		}
	}
	return Commission{}, false
}

// Optimize simplifies every commission's schedule and then merges
// commissions whose simplified schedules are equal, unioning their label
// lists. Commissions with identical schedules are observationally
// equivalent to the enumerator; collapsing them shrinks its branching factor.
func (s *Subject) Optimize() {
	for i := range s.Commissions {
		s.Commissions[i].Schedule = calendar.SimplifyWeek(s.Commissions[i].Schedule)
	}

	used := make([]bool, len(s.Commissions))
	merged := make([]Commission, 0, len(s.Commissions))
	for i := range s.Commissions {
		if used[i] {
			continue
		}
		used[i] = true
		group := s.Commissions[i]
		for j := i + 1; j < len(s.Commissions); j++ {
			if used[j] {
				continue
			}
			if calendar.EqualWeek(group.Schedule, s.Commissions[j].Schedule) {
				group = Merge(group, s.Commissions[j])
				used[j] = true
			}
		}
		merged = append(merged, group)
	}
	s.Commissions = merged
}
