// Command server exposes the option generator over HTTP: a single
// in-memory catalog an operator can reload, a streaming NDJSON generate
// endpoint, and an asynchronous CSV/PDF export pipeline backed by a
// background worker pool.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/schedgen/schedgen/api/swagger"
	"github.com/schedgen/schedgen/internal/handler"
	internalmiddleware "github.com/schedgen/schedgen/internal/middleware"
	"github.com/schedgen/schedgen/internal/service"
	"github.com/schedgen/schedgen/pkg/auth"
	"github.com/schedgen/schedgen/pkg/cache"
	"github.com/schedgen/schedgen/pkg/config"
	"github.com/schedgen/schedgen/pkg/database"
	"github.com/schedgen/schedgen/pkg/jobs"
	"github.com/schedgen/schedgen/pkg/logger"
	corsmiddleware "github.com/schedgen/schedgen/pkg/middleware/cors"
	reqidmiddleware "github.com/schedgen/schedgen/pkg/middleware/requestid"
	"github.com/schedgen/schedgen/pkg/metrics"
	"github.com/schedgen/schedgen/pkg/storage"
)

// @title schedgen API
// @version 1.0.0
// @description Weekly schedule option generator
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := metrics.New()

	var idxCache *cache.IndexCache
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("collision index cache disabled", "error", err)
	} else {
		defer redisClient.Close() //nolint:errcheck
		idxCache = cache.NewIndexCache(redisClient, 0, metricsSvc)
	}

	loader, closeLoader, err := buildLoader(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to configure catalog loader", "error", err)
	}
	if closeLoader != nil {
		defer closeLoader()
	}

	catalogSvc := service.NewCatalogService(loader, idxCache, logr)
	if _, err := catalogSvc.Reload(context.Background()); err != nil {
		logr.Sugar().Warnw("initial catalog load failed, /catalogs must be called before /generate", "error", err)
	}

	fileStore, err := storage.NewLocalStorage(cfg.Export.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Export.SignedURLSecret, cfg.Export.SignedURLTTL)
	exportSvc := service.NewExportService(catalogSvc, fileStore, signer, jobs.QueueConfig{
		Workers:    cfg.Export.WorkerConcurrency,
		BufferSize: cfg.Export.WorkerConcurrency * 4,
		MaxRetries: cfg.Export.WorkerRetries,
		RetryDelay: 5 * time.Second,
		Logger:     logr,
	}, logr)

	queueCtx, cancel := context.WithCancel(context.Background())
	exportSvc.Start(queueCtx)
	defer func() {
		cancel()
		exportSvc.Stop()
	}()

	validator := auth.NewValidator(cfg.JWT.Secret, "schedgen")

	catalogHandler := handler.NewCatalogHandler(catalogSvc, metricsSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) { c.Status(200) })
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	catalogRoutes := api.Group("/catalogs")
	catalogRoutes.POST("", internalmiddleware.JWT(validator), catalogHandler.Reload)
	catalogRoutes.POST("/:id/generate", catalogHandler.Generate)
	catalogRoutes.POST("/:id/export", exportHandler.Submit)

	exportRoutes := api.Group("/exports")
	exportRoutes.GET("/:jobID", exportHandler.Status)
	exportRoutes.GET("/:jobID/file", exportHandler.Download)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// buildLoader wires a service.Loader from cfg.Catalog, returning an
// optional cleanup func for resources (a database connection) the loader
// closes over.
func buildLoader(cfg *config.Config) (service.Loader, func(), error) {
	switch cfg.Catalog.LoaderKind {
	case "json":
		if cfg.Catalog.FeedPath == "" {
			return nil, nil, fmt.Errorf("CATALOG_FEED is required when CATALOG_LOADER=json")
		}
		open := func() (io.ReadCloser, error) { return os.Open(cfg.Catalog.FeedPath) }
		return service.JSONLoader(open), nil, nil
	case "sql":
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		return service.SQLLoader(db), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown CATALOG_LOADER value %q", cfg.Catalog.LoaderKind)
	}
}
