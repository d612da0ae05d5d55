// Package dto holds the request/response bodies the HTTP surface binds and
// validates with go-playground/validator, kept separate from the domain
// types in internal/catalog and internal/collision so the wire format can
// evolve independently of them.
package dto

// ExceptionDTO names a pair of (group key, item index) nodes the collision
// index should treat as non-colliding, mirroring collision.Exception.
type ExceptionDTO struct {
	AKey       string `json:"aKey" binding:"required"`
	AItemIndex int    `json:"aItemIndex"`
	BKey       string `json:"bKey" binding:"required"`
	BItemIndex int    `json:"bItemIndex"`
}

// GenerateRequest drives POST /catalogs/:id/generate: the mandatory set is
// required, available/blacklisted/exceptions are optional, and the count
// bounds are pointers so "absent" and "zero" are distinguishable.
type GenerateRequest struct {
	Available   []string       `json:"available"`
	Mandatory   []string       `json:"mandatory" binding:"required,min=1"`
	Blacklisted []string       `json:"blacklisted"`
	Exceptions  []ExceptionDTO `json:"exceptions"`

	SubjectCountMin *int `json:"subjectCountMin"`
	SubjectCountMax *int `json:"subjectCountMax"`
	CreditMin       *int `json:"creditMin"`
	CreditMax       *int `json:"creditMax"`
}

// ExportRequest drives POST /catalogs/:id/export: the same filter request
// as GenerateRequest, plus the rendering format for the async job.
type ExportRequest struct {
	GenerateRequest
	Format string `json:"format" binding:"required,oneof=csv pdf"`
}

// ExportStatusResponse reports an export job's progress. Token is only set
// once Status is "completed" and is the query parameter GET
// /exports/:jobID/file expects.
type ExportStatusResponse struct {
	JobID        string `json:"jobId"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
	ResultCount  int    `json:"resultCount,omitempty"`
	DownloadPath string `json:"downloadPath,omitempty"`
	Token        string `json:"token,omitempty"`
}

// ReloadResponse reports the outcome of a catalog (re)load. The collision
// index itself is cached per generate-request partition (see
// scheduling.ContentHash), not per reload, since a bare reload carries no
// available/mandatory/blacklisted selection to hash against.
type ReloadResponse struct {
	SubjectCount int `json:"subjectCount"`
}
