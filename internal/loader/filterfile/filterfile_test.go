package filterfile

import (
	"strings"
	"testing"

	"github.com/schedgen/schedgen/internal/catalog"
	"github.com/schedgen/schedgen/internal/collision"
)

func code(t *testing.T, s string) catalog.Code {
	t.Helper()
	c, err := catalog.ParseCode(s)
	if err != nil {
		t.Fatalf("ParseCode(%q): %v", s, err)
	}
	return c
}

func TestParseSkipsCommentsAndBlankLines(t *testing.T) {
	input := "# comment\n01.01\n\n02.02 extra text ignored\n"
	codes, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []catalog.Code{code(t, "01.01"), code(t, "02.02")}
	if len(codes) != len(want) {
		t.Fatalf("got %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("codes[%d] = %v, want %v", i, codes[i], want[i])
		}
	}
}

func TestParseRejectsShortLine(t *testing.T) {
	if _, err := Parse(strings.NewReader("01\n")); err == nil {
		t.Error("expected an error for a line shorter than a code")
	}
}

func TestIntersect(t *testing.T) {
	a := []catalog.Code{code(t, "01.01"), code(t, "02.02"), code(t, "03.03")}
	b := []catalog.Code{code(t, "02.02"), code(t, "03.03"), code(t, "04.04")}
	got := Intersect([][]catalog.Code{a, b})
	want := []catalog.Code{code(t, "02.02"), code(t, "03.03")}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseExceptionsSkipsCommentsAndParsesPairs(t *testing.T) {
	input := "# comment\n10.20,0,11.30,1\n\n12.40,2,13.50,0\n"
	exceptions, err := ParseExceptions(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseExceptions: %v", err)
	}
	want := []collision.Exception{
		{A: collision.Node{Key: "10.20", ItemIndex: 0}, B: collision.Node{Key: "11.30", ItemIndex: 1}},
		{A: collision.Node{Key: "12.40", ItemIndex: 2}, B: collision.Node{Key: "13.50", ItemIndex: 0}},
	}
	if len(exceptions) != len(want) {
		t.Fatalf("got %v, want %v", exceptions, want)
	}
	for i := range want {
		if exceptions[i] != want[i] {
			t.Errorf("exceptions[%d] = %+v, want %+v", i, exceptions[i], want[i])
		}
	}
}

func TestParseExceptionsRejectsMalformedLine(t *testing.T) {
	if _, err := ParseExceptions(strings.NewReader("10.20,0,11.30\n")); err == nil {
		t.Error("expected an error for a line missing a field")
	}
}

func TestDifference(t *testing.T) {
	a := []catalog.Code{code(t, "01.01"), code(t, "02.02")}
	b := []catalog.Code{code(t, "02.02")}
	got := Difference(a, b)
	if len(got) != 1 || got[0] != code(t, "01.01") {
		t.Fatalf("got %v, want [01.01]", got)
	}
}
