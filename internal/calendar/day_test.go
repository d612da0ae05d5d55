package calendar

import (
	"testing"

	"github.com/schedgen/schedgen/internal/schedtime"
)

func span(h1, m1, h2, m2 uint8) schedtime.Span {
	return schedtime.MustNewSpan(schedtime.MustNew(h1, m1), schedtime.MustNew(h2, m2))
}

func TestDaySortsByStart(t *testing.T) {
	tasks := []Task[int]{
		NewTask(span(2, 0, 3, 0), 2),
		NewTask(span(0, 0, 1, 0), 1),
		NewTask(span(1, 0, 2, 0), 3),
	}
	d := NewDay(tasks)
	got := d.Tasks()
	for i := 0; i+1 < len(got); i++ {
		if got[i].Span.Compare(got[i+1].Span) > 0 {
			t.Fatalf("tasks not sorted by start: %+v", got)
		}
	}
}

func TestDayHasCollisions(t *testing.T) {
	times := make([]schedtime.Time, 10)
	for i := range times {
		times[i] = schedtime.MustNew(uint8(i), 0)
	}
	mk := func(a, b int) schedtime.Span { return schedtime.MustNewSpan(times[a], times[b]) }

	cases := []struct {
		name   string
		spans  []schedtime.Span
		expect bool
	}{
		{"disjoint touching", []schedtime.Span{mk(0, 1), mk(1, 2)}, false},
		{"touching a 2-span", []schedtime.Span{mk(0, 1), mk(1, 3)}, false},
		{"overlapping", []schedtime.Span{mk(1, 2), mk(1, 3)}, true},
		{"four disjoint", []schedtime.Span{mk(0, 1), mk(1, 2), mk(2, 3), mk(3, 4)}, false},
		{"overlap among four", []schedtime.Span{mk(0, 1), mk(1, 2), mk(2, 4), mk(3, 4)}, true},
	}
	for _, tc := range cases {
		tasks := make([]Task[int], len(tc.spans))
		for i, s := range tc.spans {
			tasks[i] = NewTask(s, i)
		}
		if got := NewDay(tasks).HasCollisions(); got != tc.expect {
			t.Errorf("%s: HasCollisions() = %v, want %v", tc.name, got, tc.expect)
		}
	}
}

func TestDayCombineStableOnTie(t *testing.T) {
	a := NewDay([]Task[string]{NewTask(span(0, 0, 1, 0), "a")})
	b := NewDay([]Task[string]{NewTask(span(0, 0, 1, 0), "b")})
	combined := a.Combine(b)
	tasks := combined.Tasks()
	if len(tasks) != 2 || tasks[0].Payload != "a" || tasks[1].Payload != "b" {
		t.Fatalf("expected [a, b] on tie, got %+v", tasks)
	}
}

type intPayload int

func (p intPayload) Add(o intPayload) intPayload { return p + o }

func TestDaySimplify(t *testing.T) {
	tasks := []Task[intPayload]{
		NewTask(span(0, 0, 1, 0), intPayload(1)),
		NewTask(span(0, 0, 2, 0), intPayload(2)),
		NewTask(span(2, 0, 3, 0), intPayload(4)),
	}
	simplified := Simplify(NewDay(tasks))
	got := simplified.Tasks()
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks after simplify, got %d: %+v", len(got), got)
	}
	if got[0].Span != span(0, 0, 2, 0) || got[0].Payload != 3 {
		t.Errorf("first cluster = %+v, want span [0:00,2:00) payload 3", got[0])
	}
	if got[1].Span != span(2, 0, 3, 0) || got[1].Payload != 4 {
		t.Errorf("second cluster = %+v, want span [2:00,3:00) payload 4", got[1])
	}
}

func TestDaySimplifyFullyOverlapping(t *testing.T) {
	tasks := []Task[intPayload]{
		NewTask(span(15, 0, 18, 0), intPayload(1)),
		NewTask(span(15, 0, 18, 0), intPayload(2)),
	}
	simplified := Simplify(NewDay(tasks))
	got := simplified.Tasks()
	if len(got) != 1 || got[0].Span != span(15, 0, 18, 0) || got[0].Payload != 3 {
		t.Fatalf("expected one collapsed task [15:00,18:00)=3, got %+v", got)
	}
}
