package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schedgen/schedgen/internal/dto"
	"github.com/schedgen/schedgen/internal/service"
	appErrors "github.com/schedgen/schedgen/pkg/errors"
	"github.com/schedgen/schedgen/pkg/response"
)

// ExportHandler exposes the asynchronous CSV/PDF export endpoints, backed
// by a single ExportService shared across requests.
type ExportHandler struct {
	svc *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Submit godoc
// @Summary Enqueue an asynchronous export
// @Description Validates the selection and filter bounds and queues a CSV/PDF render job
// @Tags Exports
// @Accept json
// @Produce json
// @Param id path string true "Catalog id (unused, the server serves a single loaded catalog)"
// @Param payload body dto.ExportRequest true "Selection, filter bounds, and render format"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /catalogs/{id}/export [post]
func (h *ExportHandler) Submit(c *gin.Context) {
	var body dto.ExportRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export request"))
		return
	}

	req, filters, err := buildRequest(body.GenerateRequest)
	if err != nil {
		response.Error(c, appErrors.NewParseError(err.Error(), err))
		return
	}

	jobID, err := h.svc.Submit(service.ExportJobRequest{
		Request: req,
		Filters: filters,
		Format:  body.Format,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, dto.ExportStatusResponse{JobID: jobID, Status: "pending"}, nil)
}

// Status godoc
// @Summary Poll an export job's status
// @Tags Exports
// @Produce json
// @Param jobID path string true "Export job id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{jobID} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	jobID := c.Param("jobID")
	st, ok := h.svc.Status(jobID)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export: unknown job id"))
		return
	}
	response.JSON(c, http.StatusOK, dto.ExportStatusResponse{
		JobID:        st.JobID,
		Status:       st.Status,
		Error:        st.Error,
		ResultCount:  st.ResultCount,
		DownloadPath: st.DownloadPath,
		Token:        st.Token,
	}, nil)
}

// Download godoc
// @Summary Download a finished export
// @Tags Exports
// @Produce application/octet-stream
// @Param jobID path string true "Export job id"
// @Param token query string true "Signed download token from the status response"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{jobID}/file [get]
func (h *ExportHandler) Download(c *gin.Context) {
	jobID := c.Param("jobID")
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "export: token query parameter required"))
		return
	}

	file, err := h.svc.Download(jobID, token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.NewIOError("export: statting download file", err))
		return
	}

	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", file, nil)
}
