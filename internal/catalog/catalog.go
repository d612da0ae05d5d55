package catalog

import "fmt"

// Catalog is the immutable arena of Subjects built once by a loader.
// Commission and MeetingInfo back-references are SubjectIndex values into
// Subjects, so the ownership graph has no cycles and needs no back-patching.
type Catalog struct {
	Subjects []Subject
}

// Subject resolves a SubjectIndex to its owning Subject.
func (c Catalog) Subject(i SubjectIndex) Subject {
	return c.Subjects[i]
}

// FindByCode returns the subject with the given code, if present.
func (c Catalog) FindByCode(code Code) (Subject, SubjectIndex, bool) {
	for i, s := range c.Subjects {
		if s.Code == code {
			return s, SubjectIndex(i), true
		}
	}
	return Subject{}, 0, false
}

// Validate checks two invariants a loader must establish before returning a
// Catalog: every commission's back-reference resolves to a Subject whose
// commission list contains it, and every subject is non-empty.
func (c Catalog) Validate() error {
	for i, s := range c.Subjects {
		if len(s.Commissions) == 0 {
			return fmt.Errorf("catalog: subject %s has no commissions", s.Code)
		}
		for _, com := range s.Commissions {
			if int(com.SubjectIndex) != i {
				return fmt.Errorf("catalog: commission %v back-reference does not resolve to owning subject %s", com.Names, s.Code)
			}
		}
	}
	return nil
}

// Optimize runs Subject.Optimize over every subject in the catalog.
func (c *Catalog) Optimize() {
	for i := range c.Subjects {
		c.Subjects[i].Optimize()
	}
}
