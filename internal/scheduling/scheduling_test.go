package scheduling

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schedgen/schedgen/internal/calendar"
	"github.com/schedgen/schedgen/internal/catalog"
	"github.com/schedgen/schedgen/internal/filter"
	"github.com/schedgen/schedgen/internal/schedtime"
)

func mustCode(t *testing.T, s string) catalog.Code {
	t.Helper()
	c, err := catalog.ParseCode(s)
	require.NoError(t, err)
	return c
}

func subjectWithCommission(t *testing.T, idx catalog.SubjectIndex, code string, credits uint8, day calendar.Weekday, start, end string) catalog.Subject {
	t.Helper()
	c := mustCode(t, code)

	startT, err := schedtime.Parse(start)
	require.NoError(t, err)
	endT, err := schedtime.Parse(end)
	require.NoError(t, err)
	sp, err := schedtime.NewSpan(startT, endT)
	require.NoError(t, err)

	var days [7]calendar.Day[catalog.MeetingInfo]
	for i := range days {
		days[i] = calendar.NewDay[catalog.MeetingInfo](nil)
	}
	days[day] = calendar.NewDay([]calendar.Task[catalog.MeetingInfo]{
		calendar.NewTask(sp, catalog.NewMeetingInfo(idx, nil)),
	})

	return catalog.Subject{
		Code:    c,
		Name:    code,
		Credits: credits,
		Commissions: []catalog.Commission{
			{Names: []string{code + "-A"}, SubjectIndex: idx, Schedule: calendar.NewWeek(days)},
		},
	}
}

func TestPrepareAndStreamProducesBothOptionalBranches(t *testing.T) {
	math := subjectWithCommission(t, 0, "10.20", 6, calendar.Monday, "08:00", "10:00")
	phys := subjectWithCommission(t, 1, "11.30", 4, calendar.Tuesday, "08:00", "10:00")
	cat := catalog.Catalog{Subjects: []catalog.Subject{math, phys}}

	p, err := Prepare(cat, Request{
		Available: []catalog.Code{math.Code, phys.Code},
		Mandatory: []catalog.Code{math.Code},
	})
	require.NoError(t, err)

	stream := p.Stream(filter.New())
	var total int
	for {
		a, ok := stream.Next()
		if !ok {
			break
		}
		total++
		require.True(t, a[0].Present)
	}
	require.Equal(t, 2, total) // physics present once, absent once
}

func TestStreamHonorsCreditFilter(t *testing.T) {
	math := subjectWithCommission(t, 0, "10.20", 6, calendar.Monday, "08:00", "10:00")
	phys := subjectWithCommission(t, 1, "11.30", 4, calendar.Tuesday, "08:00", "10:00")
	cat := catalog.Catalog{Subjects: []catalog.Subject{math, phys}}

	p, err := Prepare(cat, Request{
		Available: []catalog.Code{math.Code, phys.Code},
		Mandatory: []catalog.Code{math.Code},
	})
	require.NoError(t, err)

	stream := p.Stream(filter.New(filter.CreditCount{Range: filter.AtLeast(10)}))
	a, ok := stream.Next()
	require.True(t, ok)
	require.True(t, a[1].Present)
	_, ok = stream.Next()
	require.False(t, ok)
}

func TestPrepareRejectsOverlappingMandatoryAndBlacklisted(t *testing.T) {
	math := subjectWithCommission(t, 0, "10.20", 6, calendar.Monday, "08:00", "10:00")
	cat := catalog.Catalog{Subjects: []catalog.Subject{math}}

	_, err := Prepare(cat, Request{
		Available:   []catalog.Code{math.Code},
		Mandatory:   []catalog.Code{math.Code},
		Blacklisted: []catalog.Code{math.Code},
	})
	require.Error(t, err)
}
