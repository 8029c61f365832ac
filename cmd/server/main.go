package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"model-serving-api/docs"
	"model-serving-api/internal/adapters/primary/http/handlers"
	"model-serving-api/internal/adapters/primary/http/middleware"
	"model-serving-api/internal/adapters/secondary/artifact"
	"model-serving-api/internal/adapters/secondary/audit"
	"model-serving-api/internal/config"
	output "model-serving-api/internal/core/ports/output"
	"model-serving-api/internal/core/registry"
	"model-serving-api/internal/core/services"
	"model-serving-api/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Model Serving API
// @version 1.0
// @description Versioned model registry and prediction serving HTTP API.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-KEY

func main() {
	// A .env file is a development convenience; deployments set real
	// environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports)
	loader := artifact.NewLoader()

	// Audit Store (Optional - based on config)
	var auditStore output.AuditStore
	if cfg.Audit.Enabled {
		store, err := audit.Open(cfg.Audit.Path)
		if err != nil {
			log.Warnf("audit store init failed (continuing without audit trail): %v", err)
		} else {
			auditStore = store
			defer store.Close()
			log.Info("audit store opened")
		}
	} else {
		log.Info("audit trail disabled")
	}

	m := metrics.New()

	// Core Services (Application Layer)
	reg := registry.New(loader, registry.Config{
		Dir:            cfg.Models.Dir,
		DefaultVersion: cfg.Models.DefaultVersion,
		LoadTimeout:    cfg.Models.LoadTimeout,
	})
	predictionSvc := services.NewPredictionService(reg, auditStore, m)
	modelSvc := services.NewModelService(reg, m)

	// Load whatever artifacts are on disk. The server comes up either way
	// and reports degraded health until a version loads.
	results := modelSvc.LoadAll(context.Background())
	loaded := 0
	for _, ok := range results {
		if ok {
			loaded++
		}
	}
	if loaded == 0 {
		log.Warn("no model versions loaded, serving degraded")
	} else {
		log.Infof("loaded %d of %d model versions, active version %s", loaded, len(results), reg.Active())
	}

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(predictionSvc, modelSvc)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	docs.SwaggerInfo.BasePath = "/api/v1"

	api := router.Group("/api/v1")
	api.Use(middleware.APIKeyAuth(cfg.Auth.APIKey))
	h.RegisterRoutes(api, middleware.RateLimit(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, m.RateLimited.Inc))

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
