// Package sqlloader builds a catalog.Catalog from a normalized Postgres
// schema of subjects, commissions, and commission_times — the relational
// counterpart to jsonloader's feed format.
//
// Expected schema:
//
//	subjects(code TEXT PRIMARY KEY, name TEXT NOT NULL, credits SMALLINT NOT NULL DEFAULT 0)
//	commissions(id BIGINT PRIMARY KEY, subject_code TEXT NOT NULL REFERENCES subjects(code), name TEXT NOT NULL)
//	commission_times(commission_id BIGINT NOT NULL REFERENCES commissions(id),
//	                 day TEXT NOT NULL, building TEXT, hour_from TEXT NOT NULL, hour_to TEXT NOT NULL)
package sqlloader

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schedgen/schedgen/internal/calendar"
	"github.com/schedgen/schedgen/internal/catalog"
	"github.com/schedgen/schedgen/internal/schedtime"
	pkgerrors "github.com/schedgen/schedgen/pkg/errors"
)

type subjectRow struct {
	Code    string `db:"code"`
	Name    string `db:"name"`
	Credits uint8  `db:"credits"`
}

type commissionRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type commissionTimeRow struct {
	Day      string `db:"day"`
	Building string `db:"building"`
	HourFrom string `db:"hour_from"`
	HourTo   string `db:"hour_to"`
}

// Load queries db for every subject, its commissions, and their weekly
// meeting times, building a complete Catalog.
func Load(ctx context.Context, db *sqlx.DB) (catalog.Catalog, error) {
	var subjects []subjectRow
	if err := db.SelectContext(ctx, &subjects, `SELECT code, name, credits FROM subjects ORDER BY code`); err != nil {
		return catalog.Catalog{}, pkgerrors.NewIOError("sqlloader: querying subjects", err)
	}

	var cat catalog.Catalog
	for _, sr := range subjects {
		code, err := catalog.ParseCode(sr.Code)
		if err != nil {
			return catalog.Catalog{}, pkgerrors.NewParseError("sqlloader: invalid subject code "+sr.Code, err)
		}
		subjectIdx := catalog.SubjectIndex(len(cat.Subjects))

		var commissions []commissionRow
		if err := db.SelectContext(ctx, &commissions, `SELECT id, name FROM commissions WHERE subject_code = $1 ORDER BY id`, sr.Code); err != nil {
			return catalog.Catalog{}, pkgerrors.NewIOError("sqlloader: querying commissions for "+sr.Code, err)
		}

		built := make([]catalog.Commission, 0, len(commissions))
		for _, cr := range commissions {
			schedule, err := loadSchedule(ctx, db, subjectIdx, cr.ID)
			if err != nil {
				return catalog.Catalog{}, err
			}
			built = append(built, catalog.Commission{
				Names:        []string{cr.Name},
				SubjectIndex: subjectIdx,
				Schedule:     schedule,
			})
		}

		cat.Subjects = append(cat.Subjects, catalog.Subject{
			Code:        code,
			Name:        sr.Name,
			Credits:     sr.Credits,
			Commissions: built,
		})
	}

	cat.Optimize()

	if err := cat.Validate(); err != nil {
		return catalog.Catalog{}, pkgerrors.NewParseError("sqlloader: built catalog fails validation", err)
	}
	return cat, nil
}

func loadSchedule(ctx context.Context, db *sqlx.DB, subjectIdx catalog.SubjectIndex, commissionID int64) (calendar.Week[catalog.MeetingInfo], error) {
	var rows []commissionTimeRow
	if err := db.SelectContext(ctx, &rows, `SELECT day, building, hour_from, hour_to FROM commission_times WHERE commission_id = $1`, commissionID); err != nil {
		return calendar.Week[catalog.MeetingInfo]{}, pkgerrors.NewIOError(fmt.Sprintf("sqlloader: querying commission_times for commission %d", commissionID), err)
	}

	byDay := make(map[calendar.Weekday][]calendar.Task[catalog.MeetingInfo])
	for _, row := range rows {
		day, ok := calendar.ParseWeekday(row.Day)
		if !ok {
			return calendar.Week[catalog.MeetingInfo]{}, pkgerrors.NewParseError(fmt.Sprintf("sqlloader: unknown day %q", row.Day), nil)
		}
		start, err := schedtime.Parse(row.HourFrom)
		if err != nil {
			return calendar.Week[catalog.MeetingInfo]{}, pkgerrors.NewParseError("sqlloader: invalid hour_from", err)
		}
		end, err := schedtime.Parse(row.HourTo)
		if err != nil {
			return calendar.Week[catalog.MeetingInfo]{}, pkgerrors.NewParseError("sqlloader: invalid hour_to", err)
		}
		span, err := schedtime.NewSpan(start, end)
		if err != nil {
			return calendar.Week[catalog.MeetingInfo]{}, pkgerrors.NewParseError("sqlloader: invalid span", err)
		}
		buildings := []string(nil)
		if row.Building != "" {
			buildings = []string{row.Building}
		}
		byDay[day] = append(byDay[day], calendar.NewTask(span, catalog.NewMeetingInfo(subjectIdx, buildings)))
	}

	var week calendar.Week[catalog.MeetingInfo]
	for _, day := range calendar.Weekdays {
		week.Days[day] = calendar.NewDay(byDay[day])
	}
	return week, nil
}
