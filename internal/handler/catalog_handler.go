package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schedgen/schedgen/internal/dto"
	"github.com/schedgen/schedgen/internal/service"
	appErrors "github.com/schedgen/schedgen/pkg/errors"
	"github.com/schedgen/schedgen/pkg/metrics"
	"github.com/schedgen/schedgen/pkg/response"
)

// CatalogHandler exposes the catalog-reload and schedule-generation
// endpoints, backed by a single CatalogService shared across requests.
type CatalogHandler struct {
	svc     *service.CatalogService
	metrics *metrics.Metrics
}

// NewCatalogHandler creates a new handler.
func NewCatalogHandler(svc *service.CatalogService, m *metrics.Metrics) *CatalogHandler {
	return &CatalogHandler{svc: svc, metrics: m}
}

// Reload godoc
// @Summary Reload the served catalog
// @Description Re-runs the configured loader and replaces the in-memory catalog
// @Tags Catalogs
// @Produce json
// @Security BearerAuth
// @Success 202 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /catalogs [post]
func (h *CatalogHandler) Reload(c *gin.Context) {
	cat, err := h.svc.Reload(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, dto.ReloadResponse{SubjectCount: len(cat.Subjects)}, nil)
}

// Generate godoc
// @Summary Stream feasible schedule assignments
// @Description Pulls the enumerator through the requested filter bounds and streams results as newline-delimited JSON
// @Tags Catalogs
// @Accept json
// @Produce json
// @Param id path string true "Catalog id (unused, the server serves a single loaded catalog)"
// @Param payload body dto.GenerateRequest true "Selection and filter bounds"
// @Success 200 {string} string "NDJSON stream of filter.Assignment"
// @Failure 400 {object} response.Envelope
// @Router /catalogs/{id}/generate [post]
func (h *CatalogHandler) Generate(c *gin.Context) {
	var body dto.GenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate request"))
		return
	}

	req, filters, err := buildRequest(body)
	if err != nil {
		response.Error(c, appErrors.NewParseError(err.Error(), err))
		return
	}

	pipeline, _, err := h.svc.Prepare(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	stream := pipeline.Stream(filters)

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)

	start := time.Now()
	encoder := json.NewEncoder(c.Writer)
	count := 0
	flusher, canFlush := c.Writer.(http.Flusher)
	for {
		assignment, ok := stream.Next()
		if !ok {
			break
		}
		if err := encoder.Encode(assignment); err != nil {
			return
		}
		count++
		if canFlush {
			flusher.Flush()
		}
	}
	h.metrics.ObserveEnumeration(time.Since(start), count)
}
