package schedtime

import "testing"

func TestParseRoundTrip(t *testing.T) {
	cases := []string{"03:40", "00:00", "23:59", "24:00"}
	for _, s := range cases {
		tm, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := tm.String(); got != s {
			t.Errorf("Parse(%q).String() = %q, want %q", s, got, s)
		}
	}
}

func TestParseMissingColon(t *testing.T) {
	if _, err := Parse("0340"); err == nil {
		t.Fatal("expected error for missing ':'")
	}
}

func TestNewRejectsOutOfRange(t *testing.T) {
	if _, err := New(25, 0); err == nil {
		t.Error("expected error for hour 25")
	}
	if _, err := New(24, 1); err == nil {
		t.Error("expected error for 24:01")
	}
	if _, err := New(10, 60); err == nil {
		t.Error("expected error for minute 60")
	}
	if _, err := New(24, 0); err != nil {
		t.Errorf("24:00 should be valid, got %v", err)
	}
}

func TestOrdering(t *testing.T) {
	if !MustNew(3, 40).Before(MustNew(3, 41)) {
		t.Error("3:40 should be before 3:41")
	}
	if !MustNew(3, 40).Before(MustNew(4, 40)) {
		t.Error("3:40 should be before 4:40")
	}
	if MustNew(4, 40).Before(MustNew(3, 40)) {
		t.Error("4:40 should not be before 3:40")
	}
}

func TestSub(t *testing.T) {
	if got := MustNew(3, 30).Sub(MustNew(2, 0)); got != 90 {
		t.Errorf("Sub = %d, want 90", got)
	}
}
