// Package jsonloader builds a catalog.Catalog from the commission-schedule
// feed format modeled on the university's innosoft fusion go export:
// {"courseCommissions":{"courseCommission":[...]}}, where each entry's
// courseCommissionTimes may be a single object, an array, or absent
// entirely. gjson is used instead of encoding/json precisely so that
// polymorphism doesn't need three separate Go types to unmarshal into.
package jsonloader

import (
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/schedgen/schedgen/internal/calendar"
	"github.com/schedgen/schedgen/internal/catalog"
	"github.com/schedgen/schedgen/internal/schedtime"
	pkgerrors "github.com/schedgen/schedgen/pkg/errors"
)

var validSubjectTypes = map[string]bool{"annual": true, "normal": true, "seminary": true}

// Load reads the whole feed from r and builds a Catalog, one Subject per
// distinct subjectCode, preserving the order commissions first appear in.
func Load(r io.Reader) (catalog.Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return catalog.Catalog{}, pkgerrors.NewIOError("jsonloader: reading feed", err)
	}
	if !gjson.ValidBytes(data) {
		return catalog.Catalog{}, pkgerrors.NewParseError("jsonloader: input is not valid JSON", nil)
	}

	entries := gjson.GetBytes(data, "courseCommissions.courseCommission")
	if !entries.Exists() {
		return catalog.Catalog{}, pkgerrors.NewParseError("jsonloader: missing courseCommissions.courseCommission", nil)
	}

	var cat catalog.Catalog
	codeOrder := make([]catalog.Code, 0)
	indexByCode := make(map[catalog.Code]int)

	var loopErr error
	entries.ForEach(func(_, entry gjson.Result) bool {
		subjectCode, err := catalog.ParseCode(entry.Get("subjectCode").String())
		if err != nil {
			loopErr = pkgerrors.NewParseError("jsonloader: invalid subjectCode", err)
			return false
		}
		subjectType := entry.Get("subjectType").String()
		if !validSubjectTypes[normalizeASCII(subjectType)] {
			loopErr = pkgerrors.NewParseError(fmt.Sprintf("jsonloader: unknown subjectType %q", subjectType), nil)
			return false
		}

		idx, ok := indexByCode[subjectCode]
		if !ok {
			idx = len(cat.Subjects)
			indexByCode[subjectCode] = idx
			codeOrder = append(codeOrder, subjectCode)
			cat.Subjects = append(cat.Subjects, catalog.Subject{
				Code: subjectCode,
				Name: entry.Get("subjectName").String(),
			})
		}

		commission, err := buildCommission(catalog.SubjectIndex(idx), entry)
		if err != nil {
			loopErr = err
			return false
		}
		cat.Subjects[idx].Commissions = append(cat.Subjects[idx].Commissions, commission)
		return true
	})
	if loopErr != nil {
		return catalog.Catalog{}, loopErr
	}

	// The feed carries no explicit credit weight, so derive one from the
	// first commission's total weekly meeting minutes, per the loader
	// contract (minutes / 60). A paired career-plan document that does
	// carry real credits can still patch Subjects[i].Credits after Load
	// returns.
	for i := range cat.Subjects {
		cat.Subjects[i].Credits = creditsFromWeeklyMinutes(cat.Subjects[i].Commissions)
	}

	// Credits are derived from the raw weekly minutes above; only now is it
	// safe to run Simplify/merge, which would otherwise change the minute
	// totals Optimize's own schedule simplification computes over.
	cat.Optimize()

	if err := cat.Validate(); err != nil {
		return catalog.Catalog{}, pkgerrors.NewParseError("jsonloader: built catalog fails validation", err)
	}
	return cat, nil
}

// creditsFromWeeklyMinutes derives a credit count from the first
// commission's total weekly meeting minutes, clamped to fit uint8. A
// subject with no commission or no scheduled minutes yet gets 0 credits.
func creditsFromWeeklyMinutes(commissions []catalog.Commission) uint8 {
	if len(commissions) == 0 {
		return 0
	}
	minutes := 0
	for _, day := range commissions[0].Schedule.Days {
		for _, task := range day.Tasks() {
			minutes += task.Span.DurationMinutes()
		}
	}
	credits := minutes / 60
	if credits > 255 {
		credits = 255
	}
	return uint8(credits)
}

func buildCommission(subjectIdx catalog.SubjectIndex, entry gjson.Result) (catalog.Commission, error) {
	var week calendar.Week[catalog.MeetingInfo]
	byDay := make(map[calendar.Weekday][]calendar.Task[catalog.MeetingInfo])

	var buildErr error
	forEachCommissionTime(entry.Get("courseCommissionTimes"), func(ct gjson.Result) bool {
		dayName := ct.Get("day").String()
		day, ok := calendar.ParseWeekday(dayName)
		if !ok {
			buildErr = pkgerrors.NewParseError(fmt.Sprintf("jsonloader: unknown day %q", dayName), nil)
			return false
		}
		start, err := schedtime.Parse(ct.Get("hourFrom").String())
		if err != nil {
			buildErr = pkgerrors.NewParseError("jsonloader: invalid hourFrom", err)
			return false
		}
		end, err := schedtime.Parse(ct.Get("hourTo").String())
		if err != nil {
			buildErr = pkgerrors.NewParseError("jsonloader: invalid hourTo", err)
			return false
		}
		span, err := schedtime.NewSpan(start, end)
		if err != nil {
			buildErr = pkgerrors.NewParseError("jsonloader: invalid span", err)
			return false
		}
		building := ct.Get("building").String()
		task := calendar.NewTask(span, catalog.NewMeetingInfo(subjectIdx, nonEmpty(building)))
		byDay[day] = append(byDay[day], task)
		return true
	})
	if buildErr != nil {
		return catalog.Commission{}, buildErr
	}

	for _, day := range calendar.Weekdays {
		week.Days[day] = calendar.NewDay(byDay[day])
	}

	return catalog.Commission{
		Names:        []string{entry.Get("commissionName").String()},
		SubjectIndex: subjectIdx,
		Schedule:     week,
	}, nil
}

// forEachCommissionTime normalizes courseCommissionTimes' single/array/null
// polymorphism into a uniform iteration.
func forEachCommissionTime(v gjson.Result, fn func(gjson.Result) bool) {
	if !v.Exists() || v.Type == gjson.Null {
		return
	}
	if v.IsArray() {
		v.ForEach(func(_, item gjson.Result) bool { return fn(item) })
		return
	}
	fn(v)
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

func normalizeASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
