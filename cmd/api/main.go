// Package main implements the voyago API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/voyago/voyago/engine/domain"
	"github.com/voyago/voyago/engine/embed"
	"github.com/voyago/voyago/engine/ingest"
	"github.com/voyago/voyago/engine/llm"
	"github.com/voyago/voyago/engine/rag"
	"github.com/voyago/voyago/engine/semantic"
	"github.com/voyago/voyago/engine/youtube"
	"github.com/voyago/voyago/pkg/natsutil"
)

// Config holds all environment-based configuration.
type Config struct {
	Port          string
	SealionAPIKey string
	SealionURL    string
	LLMModel      string
	QdrantURL     string
	QdrantAPIKey  string
	Collection    string
	EmbedProvider string
	EmbedBaseURL  string
	EmbedAPIKey   string
	EmbedModel    string
	EmbedDims     int
	DefaultTopK   int
	NATSURL       string
	CORSOrigin    string
}

func loadConfig() Config {
	return Config{
		Port:          envOr("PORT", "8080"),
		SealionAPIKey: os.Getenv("SEALION_API"),
		SealionURL:    envOr("SEALION_BASE_URL", "https://api.sea-lion.ai/v1"),
		LLMModel:      envOr("LLM_MODEL", llm.DefaultModel),
		QdrantURL:     envOr("QDRANT_URL", "localhost:6334"),
		QdrantAPIKey:  os.Getenv("QDRANT_API_KEY"),
		Collection:    envOr("QDRANT_COLLECTION", "demo_bge_m3"),
		EmbedProvider: envOr("EMBED_PROVIDER", "openai"),
		EmbedBaseURL:  os.Getenv("EMBED_BASE_URL"),
		EmbedAPIKey:   os.Getenv("EMBED_API_KEY"),
		EmbedModel:    envOr("EMBED_MODEL", "BAAI/bge-m3"),
		EmbedDims:     envIntOr("EMBED_DIMS", embed.DefaultDims),
		DefaultTopK:   envIntOr("DEFAULT_TOP_K", domain.DefaultTopK),
		NATSURL:       os.Getenv("NATS_URL"),
		CORSOrigin:    envOr("CORS_ORIGIN", "*"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func newEmbedder(cfg Config) embed.Embedder {
	if cfg.EmbedProvider == "ollama" {
		return embed.NewOllamaEmbedder(cfg.EmbedBaseURL, cfg.EmbedModel, cfg.EmbedDims)
	}
	return embed.NewOpenAIEmbedder(embed.OpenAIConfig{
		APIKey:  cfg.EmbedAPIKey,
		BaseURL: cfg.EmbedBaseURL,
		Model:   cfg.EmbedModel,
		Dims:    cfg.EmbedDims,
	})
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Connect to Qdrant ---
	store, err := semantic.New(cfg.QdrantURL, cfg.Collection, cfg.QdrantAPIKey)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx, cfg.EmbedDims); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}
	logger.Info("qdrant ready", "collection", store.Collection(), "dims", cfg.EmbedDims)

	// --- Build services ---
	embedder := newEmbedder(cfg)

	llmClient := llm.New(llm.Config{
		APIKey:  cfg.SealionAPIKey,
		BaseURL: cfg.SealionURL,
		Model:   cfg.LLMModel,
	})

	planOpts := rag.DefaultOptions()
	planOpts.Model = cfg.LLMModel
	planOpts.TopK = cfg.DefaultTopK
	planner := rag.New(embedder, store, llmClient, planOpts, logger)

	fetcher := youtube.NewFetcher(nil, nil)
	ingestSvc := ingest.New(fetcher, embedder, store, ingest.WholeDoc{}, logger)

	// --- Optional NATS ingestion queue ---
	if cfg.NATSURL != "" {
		nc, err := natsutil.Connect(cfg.NATSURL, "voyago-api", logger)
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Close()

		sub, err := ingest.StartConsumer(nc, ingestSvc, logger)
		if err != nil {
			return fmt.Errorf("ingest consumer: %w", err)
		}
		defer sub.Unsubscribe()
		logger.Info("ingest queue consumer started", "subject", ingest.QueueSubject)
	}

	// --- Build HTTP server ---
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(planner, ingestSvc, llmClient, cfg.CORSOrigin, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
