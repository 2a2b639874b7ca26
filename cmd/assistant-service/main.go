package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tripweaver/assistant/internal/api"
	"github.com/tripweaver/assistant/internal/assistant"
	"github.com/tripweaver/assistant/internal/config"
	"github.com/tripweaver/assistant/internal/conversation"
	"github.com/tripweaver/assistant/internal/factory"
	"github.com/tripweaver/assistant/internal/health"
	"github.com/tripweaver/assistant/internal/llm"
	"github.com/tripweaver/assistant/internal/logger"
	"github.com/tripweaver/assistant/internal/lookup"
	"github.com/tripweaver/assistant/internal/mutator"
)

func main() {
	// Optional build-target flag override (local | cloud-dev | cloud)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (local, cloud-dev, cloud)")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logger.New("assistant-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *buildTarget != "" {
		cfg.BuildTarget = *buildTarget
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid build-target override")
		}
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("catalog_driver", cfg.CatalogDriver).
		Str("chat_model", cfg.ChatModel).
		Int("http_port", cfg.HTTPPort).
		Msg("Assistant service starting…")

	ctx := context.Background()

	// -------- Catalog and embeddings --------
	store, err := factory.NewCatalogStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Catalog store unavailable")
	}
	defer func() { _ = store.Close() }()

	embedder, err := factory.NewEmbeddingProvider(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Embedding provider unavailable")
	}

	// -------- Language model ----------------
	chatClient, err := llm.NewOpenAIClient()
	if err != nil {
		log.Fatal().Err(err).Msg("Chat client unavailable")
	}

	// -------- Domain services ---------------
	lookupSvc := lookup.New(store, embedder, cfg.SimilarityThreshold, cfg.SearchLimit)
	mut := mutator.New(chatClient, cfg.MutatorModel)
	convStore := conversation.NewStore()
	assistantSvc := assistant.New(convStore, chatClient, mut, lookupSvc, assistant.Options{
		ChatModel:          cfg.ChatModel,
		ContextWindowTurns: cfg.ContextWindowTurns,
		CallTimeout:        cfg.ExternalCallTimeout,
	}, log)

	// -------- Health monitor ----------------
	catalogCheck := health.NewChecker("catalog", store.HealthCheck, log)
	go catalogCheck.Start(ctx, 30*time.Second)
	healthSvc := health.NewService(catalogCheck)

	// -------- Router & Server ---------------
	router := api.NewRouter(assistantSvc, lookupSvc, store, healthSvc)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
