package jsonloader

import (
	"strings"
	"testing"

	"github.com/schedgen/schedgen/internal/calendar"
	"github.com/schedgen/schedgen/internal/catalog"
)

const feed = `{
  "courseCommissions": {
    "courseCommission": [
      {
        "subjectCode": "01.01",
        "subjectName": "Algebra",
        "subjectType": "NORMAL",
        "courseStart": "1/3/26",
        "courseEnd": "30/6/26",
        "commissionName": "A",
        "commissionId": "1",
        "quota": "40",
        "enrolledStudents": "35",
        "courseCommissionTimes": {
          "day": "Monday",
          "classRoom": "101",
          "building": "Main",
          "hourFrom": "08:00",
          "hourTo": "10:00"
        }
      },
      {
        "subjectCode": "01.01",
        "subjectName": "Algebra",
        "subjectType": "normal",
        "courseStart": "1/3/26",
        "courseEnd": "30/6/26",
        "commissionName": "B",
        "commissionId": "2",
        "quota": "40",
        "enrolledStudents": "10",
        "courseCommissionTimes": [
          {"day": "tuesday", "building": "Annex", "hourFrom": "08:00", "hourTo": "09:00"},
          {"day": "thursday", "building": "Annex", "hourFrom": "08:00", "hourTo": "09:00"}
        ]
      },
      {
        "subjectCode": "02.02",
        "subjectName": "No Meetings Yet",
        "subjectType": "SEMINARY",
        "courseStart": "1/3/26",
        "courseEnd": "30/6/26",
        "commissionName": "A",
        "commissionId": "3",
        "quota": "40",
        "enrolledStudents": "0",
        "courseCommissionTimes": null
      }
    ]
  }
}`

func TestLoadBuildsCatalogFromMixedShapes(t *testing.T) {
	cat, err := Load(strings.NewReader(feed))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Subjects) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(cat.Subjects))
	}

	algebra, _, ok := cat.FindByCode(mustCode(t, "01.01"))
	if !ok {
		t.Fatal("expected to find subject 01.01")
	}
	if len(algebra.Commissions) != 2 {
		t.Fatalf("expected 2 commissions for 01.01, got %d", len(algebra.Commissions))
	}

	commA := algebra.Commissions[0]
	if len(commA.Schedule.Days[calendar.Monday].Tasks()) != 1 {
		t.Errorf("expected one Monday task from the single-object shape")
	}

	commB := algebra.Commissions[1]
	if len(commB.Schedule.Days[calendar.Tuesday].Tasks()) != 1 || len(commB.Schedule.Days[calendar.Thursday].Tasks()) != 1 {
		t.Errorf("expected one task each on Tuesday and Thursday from the array shape")
	}

	noMeetings, _, ok := cat.FindByCode(mustCode(t, "02.02"))
	if !ok {
		t.Fatal("expected to find subject 02.02")
	}
	for _, day := range calendar.Weekdays {
		if len(noMeetings.Commissions[0].Schedule.Days[day].Tasks()) != 0 {
			t.Errorf("expected no tasks from the null shape on %s", day)
		}
	}
}

func TestLoadRejectsUnknownSubjectType(t *testing.T) {
	bad := strings.Replace(feed, `"subjectType": "NORMAL"`, `"subjectType": "BOGUS"`, 1)
	if _, err := Load(strings.NewReader(bad)); err == nil {
		t.Error("expected an error for an unrecognized subjectType")
	}
}

func TestLoadRejectsMissingWrapper(t *testing.T) {
	if _, err := Load(strings.NewReader(`{"foo":"bar"}`)); err == nil {
		t.Error("expected an error when courseCommissions.courseCommission is missing")
	}
}

func mustCode(t *testing.T, s string) catalog.Code {
	t.Helper()
	c, err := catalog.ParseCode(s)
	if err != nil {
		t.Fatalf("ParseCode(%q): %v", s, err)
	}
	return c
}
