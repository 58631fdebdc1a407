package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mfdez/tubeqa/internal/config"
	"github.com/mfdez/tubeqa/internal/index"
	"github.com/mfdez/tubeqa/internal/logger"
	"github.com/mfdez/tubeqa/internal/service"
	"github.com/mfdez/tubeqa/internal/transcript"
)

// One-shot CLI: runs the full answer pipeline for a single video and
// question, then prints the answer. Useful for smoke testing a deployment's
// credentials and proxy without standing up the API server.
func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "warn",
		Format:      "text",
		ServiceName: "tubeqa-ask",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	videoID := flag.String("video", "", "YouTube video ID to ask about")
	query := flag.String("query", "", "Question to ask")
	configPath := flag.String("config", "", "Path to config file")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall deadline for the answer")
	flag.Parse()

	if *videoID == "" || *query == "" {
		fmt.Fprintln(os.Stderr, "usage: ask -video <id> -query <question> [-config <path>] [-timeout <duration>]")
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	if !cfg.Proxy.Enabled() {
		appLogger.Warn("Proxy credentials not configured; fetching transcripts directly")
	}

	transcripts := transcript.NewYouTubeClient(&transcript.Config{
		Language:          cfg.Transcript.Language,
		RequestsPerSecond: cfg.Transcript.RequestsPerSecond,
		ProxyURL:          cfg.Proxy.URL(),
	})

	embedder, model, err := service.NewProvider(&cfg.Provider, &cfg.Retrieval)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize provider")
	}

	answerService := service.NewAnswerService(&service.AnswerConfig{
		ChunkSize:    cfg.Retrieval.ChunkSize,
		ChunkOverlap: cfg.Retrieval.ChunkOverlap,
		TopK:         cfg.Retrieval.TopK,
	}, transcripts, embedder, model, index.NewCache(cfg.Cache.TTL(), cfg.Cache.Capacity))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = logger.SetComponent(ctx, "ask")

	answer, err := answerService.Answer(ctx, *videoID, *query)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to answer question")
	}

	fmt.Println(answer)
}
