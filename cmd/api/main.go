package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mfdez/tubeqa/internal/api"
	"github.com/mfdez/tubeqa/internal/api/middleware"
	"github.com/mfdez/tubeqa/internal/config"
	"github.com/mfdez/tubeqa/internal/index"
	"github.com/mfdez/tubeqa/internal/logger"
	"github.com/mfdez/tubeqa/internal/service"
	"github.com/mfdez/tubeqa/internal/transcript"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Without a proxy YouTube eventually rate limits the server's address;
	// transcript fetching still works, so this only warns.
	if cfg.Proxy.Partial() {
		appLogger.Warn("Proxy partially configured, set both PROXY_USERNAME and PROXY_PASSWORD; fetching transcripts directly")
	} else if !cfg.Proxy.Enabled() {
		appLogger.Warn("Proxy credentials not configured; fetching transcripts directly")
	}

	// Initialize transcript client
	transcripts := transcript.NewYouTubeClient(&transcript.Config{
		Language:          cfg.Transcript.Language,
		RequestsPerSecond: cfg.Transcript.RequestsPerSecond,
		ProxyURL:          cfg.Proxy.URL(),
	})

	// Initialize embedding and generation provider
	embedder, model, err := service.NewProvider(&cfg.Provider, &cfg.Retrieval)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize provider")
	}

	// Initialize per-video index cache
	cache := index.NewCache(cfg.Cache.TTL(), cfg.Cache.Capacity)

	answerService := service.NewAnswerService(&service.AnswerConfig{
		ChunkSize:    cfg.Retrieval.ChunkSize,
		ChunkOverlap: cfg.Retrieval.ChunkOverlap,
		TopK:         cfg.Retrieval.TopK,
	}, transcripts, embedder, model, cache)

	// Setup router
	router := api.SetupRouter(answerService, cfg.Server.Mode, middleware.CORSConfig{
		AllowedOrigin: cfg.Server.CORS.AllowedOrigin,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port":     cfg.Server.Port,
			"mode":     cfg.Server.Mode,
			"provider": cfg.Provider.Name,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
