package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schedgen/schedgen/internal/filter"
	"github.com/schedgen/schedgen/internal/scheduling"
	pkgerrors "github.com/schedgen/schedgen/pkg/errors"
	"github.com/schedgen/schedgen/pkg/export"
	"github.com/schedgen/schedgen/pkg/jobs"
	"github.com/schedgen/schedgen/pkg/storage"
)

// ExportJobRequest is the enumeration request an async export job replays
// against the currently loaded catalog, plus the rendering format.
type ExportJobRequest struct {
	Request scheduling.Request
	Filters filter.Pipeline
	Format  string // "csv" or "pdf"
}

const (
	exportStatusPending   = "pending"
	exportStatusRunning   = "running"
	exportStatusCompleted = "completed"
	exportStatusFailed    = "failed"
)

type exportJobState struct {
	status      string
	errMsg      string
	resultCount int
	relPath     string
	token       string
	expiresAt   time.Time
}

// ExportStatus is the externally-visible snapshot of one export job,
// independent of the internal/dto wire shape so callers outside the HTTP
// handler (tests, a future CLI consumer) don't need to depend on dto.
type ExportStatus struct {
	JobID        string
	Status       string
	Error        string
	ResultCount  int
	DownloadPath string
	Token        string
}

// ExportService renders the filtered assignment stream to CSV/PDF on a
// background worker pool (pkg/jobs), off the enumerator's synchronous call
// path per the core's no-background-workers rule. Job state lives in
// memory only: a process restart loses in-flight jobs, mirroring the
// CatalogService's in-memory catalog (there is no durable store for either
// in this deployment).
type ExportService struct {
	catalog *CatalogService
	storage *storage.LocalStorage
	signer  *storage.SignedURLSigner
	queue   *jobs.Queue
	logger  *zap.Logger

	mu   sync.RWMutex
	jobs map[string]*exportJobState
}

// NewExportService wires a queue of the given configuration to render
// export jobs against catalog's currently loaded catalog, persisting
// rendered files through store and signing download tokens with signer.
func NewExportService(catalog *CatalogService, store *storage.LocalStorage, signer *storage.SignedURLSigner, queueCfg jobs.QueueConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ExportService{
		catalog: catalog,
		storage: store,
		signer:  signer,
		logger:  logger,
		jobs:    make(map[string]*exportJobState),
	}
	queueCfg.Logger = logger
	svc.queue = jobs.NewQueue("exports", svc.handle, queueCfg)
	return svc
}

// Start begins the background worker pool. Call once, before Submit.
func (s *ExportService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Stop cancels the worker pool and waits for in-flight jobs to return.
func (s *ExportService) Stop() { s.queue.Stop() }

// Submit validates req's format, registers a pending job, and enqueues it
// for background rendering, returning the new job's id.
func (s *ExportService) Submit(req ExportJobRequest) (string, error) {
	if req.Format != "csv" && req.Format != "pdf" {
		return "", pkgerrors.NewParseError(fmt.Sprintf("export: unsupported format %q", req.Format), nil)
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.jobs[id] = &exportJobState{status: exportStatusPending}
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: id, Type: "export", Payload: req}); err != nil {
		s.setFailed(id, err)
		return "", pkgerrors.Wrap(err, pkgerrors.ErrInternal.Code, pkgerrors.ErrInternal.Status, "failed to enqueue export job")
	}
	return id, nil
}

// Status reports a job's current state, or false if the id is unknown.
func (s *ExportService) Status(id string) (ExportStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.jobs[id]
	if !ok {
		return ExportStatus{}, false
	}
	return ExportStatus{
		JobID:        id,
		Status:       st.status,
		Error:        st.errMsg,
		ResultCount:  st.resultCount,
		DownloadPath: st.relPath,
		Token:        st.token,
	}, true
}

// Download validates token against the job named jobID and, if the job has
// finished and the token matches and hasn't expired, opens the stored file.
func (s *ExportService) Download(jobID, token string) (*os.File, error) {
	s.mu.RLock()
	st, ok := s.jobs[jobID]
	s.mu.RUnlock()
	if !ok || st.status != exportStatusCompleted {
		return nil, pkgerrors.Clone(pkgerrors.ErrNotFound, "export: job not found or not finished")
	}

	gotJobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, pkgerrors.Clone(pkgerrors.ErrForbidden, "export: invalid or expired download token")
	}
	if gotJobID != jobID || relPath != st.relPath {
		return nil, pkgerrors.Clone(pkgerrors.ErrForbidden, "export: token does not match job")
	}
	return s.storage.Open(relPath)
}

func (s *ExportService) handle(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(ExportJobRequest)
	if !ok {
		err := fmt.Errorf("export: unexpected job payload type %T", job.Payload)
		s.setFailed(job.ID, err)
		return err
	}

	s.setStatus(job.ID, exportStatusRunning)

	pipeline, _, err := s.catalog.Prepare(ctx, req.Request)
	if err != nil {
		s.setFailed(job.ID, err)
		return err
	}

	dataset, count := datasetFromStream(pipeline, req.Filters)

	var payload []byte
	switch req.Format {
	case "csv":
		payload, err = export.NewCSVExporter().Render(dataset)
	case "pdf":
		payload, err = export.NewPDFExporter().Render(dataset, "schedule assignments")
	}
	if err != nil {
		s.setFailed(job.ID, err)
		return err
	}

	filename := fmt.Sprintf("%s.%s", job.ID, req.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		s.setFailed(job.ID, err)
		return err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.setFailed(job.ID, err)
		return err
	}

	s.mu.Lock()
	st := s.jobs[job.ID]
	st.status = exportStatusCompleted
	st.resultCount = count
	st.relPath = relPath
	st.token = token
	st.expiresAt = expiresAt
	s.mu.Unlock()
	return nil
}

func datasetFromStream(pipeline *scheduling.Pipeline, filters filter.Pipeline) (export.Dataset, int) {
	headers := make([]string, 0, len(pipeline.Groups()))
	for _, g := range pipeline.Groups() {
		headers = append(headers, g.Key)
	}

	stream := pipeline.Stream(filters)
	var rows []map[string]string
	count := 0
	for {
		a, ok := stream.Next()
		if !ok {
			break
		}
		row := make(map[string]string, len(a))
		for _, e := range a {
			if e.Present {
				row[e.Code] = "yes"
			} else {
				row[e.Code] = ""
			}
		}
		rows = append(rows, row)
		count++
	}
	return export.Dataset{Headers: headers, Rows: rows}, count
}

func (s *ExportService) setStatus(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.jobs[id]; ok {
		st.status = status
	}
}

func (s *ExportService) setFailed(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.jobs[id]; ok {
		st.status = exportStatusFailed
		st.errMsg = err.Error()
	}
}
