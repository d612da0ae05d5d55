// Package service holds the stateful orchestration the HTTP handlers call
// into: the in-memory catalog a server instance serves against, its
// collision-index cache, and the background export pipeline.
package service

import (
	"context"
	"io"
	"sync"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/schedgen/schedgen/internal/catalog"
	"github.com/schedgen/schedgen/internal/loader/jsonloader"
	"github.com/schedgen/schedgen/internal/loader/sqlloader"
	"github.com/schedgen/schedgen/internal/scheduling"
	"github.com/schedgen/schedgen/pkg/cache"
	pkgerrors "github.com/schedgen/schedgen/pkg/errors"
)

// Loader abstracts the two concrete loaders so CatalogService can be built
// against either without depending on cmd-layer flag parsing.
type Loader func(ctx context.Context) (catalog.Catalog, error)

// JSONLoader returns a Loader reading a JSON feed from open, a factory so a
// fresh reader is obtained on every reload.
func JSONLoader(open func() (io.ReadCloser, error)) Loader {
	return func(ctx context.Context) (catalog.Catalog, error) {
		r, err := open()
		if err != nil {
			return catalog.Catalog{}, pkgerrors.NewIOError("service: opening feed", err)
		}
		defer r.Close() //nolint:errcheck
		return jsonloader.Load(r)
	}
}

// SQLLoader returns a Loader reading from db.
func SQLLoader(db *sqlx.DB) Loader {
	return func(ctx context.Context) (catalog.Catalog, error) {
		return sqlloader.Load(ctx, db)
	}
}

// CatalogService holds the single catalog a server process serves
// generate/export requests against, along with the collision-index cache
// keyed by request content hash. Reload replaces the catalog under a
// write lock; Prepare and Snapshot read it under a read lock, so concurrent
// /generate requests never observe a half-replaced catalog.
type CatalogService struct {
	mu sync.RWMutex

	loader Loader
	cache  *cache.IndexCache
	logger *zap.Logger

	catalog     catalog.Catalog
	contentHash string
	ready       bool
}

// NewCatalogService builds a service around loader, with idx as the
// optional (may be nil) Redis-backed collision-index cache.
func NewCatalogService(loader Loader, idx *cache.IndexCache, logger *zap.Logger) *CatalogService {
	return &CatalogService{loader: loader, cache: idx, logger: logger}
}

// Reload runs the configured loader, validates and optimizes the result,
// and stores it as the catalog subsequent requests build pipelines
// against, returning it to the caller for reporting (e.g. subject count).
func (s *CatalogService) Reload(ctx context.Context) (catalog.Catalog, error) {
	cat, err := s.loader(ctx)
	if err != nil {
		return catalog.Catalog{}, err
	}
	cat.Optimize()
	if err := cat.Validate(); err != nil {
		return catalog.Catalog{}, pkgerrors.NewInvariantViolation(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = cat
	s.ready = true
	return cat, nil
}

// Prepare builds a scheduling.Pipeline for req against the currently
// loaded catalog, reusing a cached collision.Index when one exists for
// req's content hash. The bool result reports whether the index came from
// cache.
func (s *CatalogService) Prepare(ctx context.Context, req scheduling.Request) (*scheduling.Pipeline, bool, error) {
	s.mu.RLock()
	cat := s.catalog
	ready := s.ready
	s.mu.RUnlock()

	if !ready {
		return nil, false, pkgerrors.NewInvariantViolation("service: no catalog has been loaded yet")
	}

	hash := scheduling.ContentHash(cat, req)

	if s.cache != nil {
		if idx, hit, err := s.cache.Get(ctx, hash); err == nil && hit {
			pipeline, err := scheduling.Resume(cat, req, idx)
			if err != nil {
				return nil, false, err
			}
			return pipeline, true, nil
		}
	}

	pipeline, err := scheduling.Prepare(cat, req)
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, hash, pipeline.Index()); err != nil && s.logger != nil {
			s.logger.Sugar().Warnw("failed to cache collision index", "hash", hash, "error", err)
		}
	}
	return pipeline, false, nil
}

// Snapshot returns the currently loaded catalog and whether one has been
// loaded at all.
func (s *CatalogService) Snapshot() (catalog.Catalog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, s.ready
}

// ContentHash computes the cache key a request would resolve to against
// the currently loaded catalog, without building a Pipeline. Returns an
// error if no catalog has been loaded yet.
func (s *CatalogService) ContentHash(req scheduling.Request) (string, error) {
	cat, ready := s.Snapshot()
	if !ready {
		return "", pkgerrors.NewInvariantViolation("service: no catalog has been loaded yet")
	}
	return scheduling.ContentHash(cat, req), nil
}
