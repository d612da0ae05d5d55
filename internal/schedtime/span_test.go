package schedtime

import "testing"

func TestNewSpanRejectsBackwards(t *testing.T) {
	a, b := MustNew(2, 0), MustNew(1, 0)
	if _, err := NewSpan(a, b); err == nil {
		t.Error("expected error when start >= end")
	}
	if _, err := NewSpan(a, a); err == nil {
		t.Error("expected error when start == end")
	}
	if _, err := NewSpan(b, a); err != nil {
		t.Errorf("start < end should be accepted, got %v", err)
	}
}

func TestSpanCollides(t *testing.T) {
	t1, t2, t3, t4, t5 := MustNew(1, 0), MustNew(2, 0), MustNew(3, 0), MustNew(4, 0), MustNew(5, 0)

	cases := []struct {
		name     string
		a, b     Span
		collides bool
	}{
		{"touching end-to-start", MustNewSpan(t1, t2), MustNewSpan(t2, t3), false},
		{"overlapping, shared end", MustNewSpan(t1, t3), MustNewSpan(t2, t3), true},
		{"a contains b", MustNewSpan(t1, t4), MustNewSpan(t2, t3), true},
		{"touching start-to-end reversed", MustNewSpan(t4, t5), MustNewSpan(t3, t4), false},
	}
	for _, tc := range cases {
		if got := tc.a.Collides(tc.b); got != tc.collides {
			t.Errorf("%s: %v.Collides(%v) = %v, want %v", tc.name, tc.a, tc.b, got, tc.collides)
		}
		if got := tc.b.Collides(tc.a); got != tc.collides {
			t.Errorf("%s: collision should be symmetric", tc.name)
		}
	}
}

func TestSpanDuration(t *testing.T) {
	s := MustNewSpan(MustNew(1, 15), MustNew(2, 45))
	if got := s.DurationMinutes(); got != 90 {
		t.Errorf("DurationMinutes = %d, want 90", got)
	}
}
