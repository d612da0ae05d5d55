package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/schedgen/schedgen/internal/calendar"
	"github.com/schedgen/schedgen/internal/catalog"
	"github.com/schedgen/schedgen/internal/filter"
	"github.com/schedgen/schedgen/internal/scheduling"
	"github.com/schedgen/schedgen/internal/schedtime"
	"github.com/schedgen/schedgen/pkg/jobs"
	"github.com/schedgen/schedgen/pkg/storage"
)

func subjectFixture(t *testing.T, idx catalog.SubjectIndex, code string, credits uint8, day calendar.Weekday, start, end string) catalog.Subject {
	t.Helper()
	c, err := catalog.ParseCode(code)
	require.NoError(t, err)

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

func waitForTerminalStatus(t *testing.T, svc *ExportService, jobID string) ExportStatus {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		st, ok := svc.Status(jobID)
		require.True(t, ok)
		if st.Status == exportStatusCompleted || st.Status == exportStatusFailed {
			return st
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("export job did not reach a terminal state in time")
	return ExportStatus{}
}

func TestExportServiceSubmitRendersAndServesCSV(t *testing.T) {
	math := subjectFixture(t, 0, "10.20", 6, calendar.Monday, "08:00", "10:00")
	cat := catalog.Catalog{Subjects: []catalog.Subject{math}}

	catalogSvc := NewCatalogService(func(ctx context.Context) (catalog.Catalog, error) {
		return cat, nil
	}, nil, nil)
	_, err := catalogSvc.Reload(context.Background())
	require.NoError(t, err)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)

	exportSvc := NewExportService(catalogSvc, store, signer, jobs.QueueConfig{Workers: 1}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exportSvc.Start(ctx)
	defer exportSvc.Stop()

	jobID, err := exportSvc.Submit(ExportJobRequest{
		Request: scheduling.Request{
			Available: []catalog.Code{math.Code},
			Mandatory: []catalog.Code{math.Code},
		},
		Filters: filter.New(),
		Format:  "csv",
	})
	require.NoError(t, err)

	st := waitForTerminalStatus(t, exportSvc, jobID)
	require.Equal(t, exportStatusCompleted, st.Status)
	require.Equal(t, 1, st.ResultCount)
	require.NotEmpty(t, st.Token)

	file, err := exportSvc.Download(jobID, st.Token)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck

	contents, err := io.ReadAll(file)
	require.NoError(t, err)
	require.Contains(t, string(contents), "10.20")
}

func TestExportServiceSubmitRejectsUnknownFormat(t *testing.T) {
	catalogSvc := NewCatalogService(func(ctx context.Context) (catalog.Catalog, error) {
		return catalog.Catalog{}, nil
	}, nil, nil)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	exportSvc := NewExportService(catalogSvc, store, signer, jobs.QueueConfig{Workers: 1}, nil)

	_, err = exportSvc.Submit(ExportJobRequest{Format: "xml"})
	require.Error(t, err)
}

func TestExportServiceDownloadRejectsMismatchedToken(t *testing.T) {
	math := subjectFixture(t, 0, "10.20", 6, calendar.Monday, "08:00", "10:00")
	cat := catalog.Catalog{Subjects: []catalog.Subject{math}}

	catalogSvc := NewCatalogService(func(ctx context.Context) (catalog.Catalog, error) {
		return cat, nil
	}, nil, nil)
	_, err := catalogSvc.Reload(context.Background())
	require.NoError(t, err)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)

	exportSvc := NewExportService(catalogSvc, store, signer, jobs.QueueConfig{Workers: 1}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exportSvc.Start(ctx)
	defer exportSvc.Stop()

	jobID, err := exportSvc.Submit(ExportJobRequest{
		Request: scheduling.Request{
			Available: []catalog.Code{math.Code},
			Mandatory: []catalog.Code{math.Code},
		},
		Filters: filter.New(),
		Format:  "csv",
	})
	require.NoError(t, err)
	waitForTerminalStatus(t, exportSvc, jobID)

	forgedToken, _, err := signer.Generate(jobID, "somewhere/else.csv")
	require.NoError(t, err)

	_, err = exportSvc.Download(jobID, forgedToken)
	require.Error(t, err)
}
