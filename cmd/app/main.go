package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schema-ai-service/internal/config"
	"schema-ai-service/internal/domain/ports/adapter"
	aiAdapters "schema-ai-service/internal/infra/adapters/ai"
	pg "schema-ai-service/internal/infra/db/postgres"
	"schema-ai-service/internal/infra/logging"
	"schema-ai-service/internal/infra/metrics"
	red "schema-ai-service/internal/infra/redis"
	"schema-ai-service/internal/infra/scheduler"
	"schema-ai-service/internal/infra/web"
	"schema-ai-service/internal/schema/builder"
	"schema-ai-service/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop classifier fallback)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, *devMode)
	if *devMode {
		logger.Warn().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	jobRepo := pg.NewSchemaJobRepo(pool)
	contentRepo := pg.NewContentRepo(pool)
	schemaRepo := pg.NewSchemaRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Graph builder ----
	graphBuilder := builder.New(builder.Site{
		Name:            cfg.Site.Name,
		URL:             cfg.Site.URL,
		LogoURL:         cfg.Site.LogoURL,
		Language:        cfg.Site.Language,
		WebsiteAllPages: cfg.Site.WebsiteAllPages,
	})

	// ---- Classifier (OpenAI -> Gemini -> noop in dev) ----
	var classifier adapter.Classifier
	switch {
	case cfg.AI.OpenAIKey != "":
		classifier, err = aiAdapters.NewOpenAIClassifier(cfg.AI, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai classifier")
		}
		logger.Info().Str("base", cfg.AI.OpenAIURL).Str("model", cfg.AI.DefaultModel).Msg("classifier: openai")
	case cfg.AI.GeminiKey != "":
		classifier, err = aiAdapters.NewGeminiClassifier(ctx, cfg.AI, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini classifier")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("classifier: gemini")
	case *devMode:
		classifier = aiAdapters.NewNoopClassifier()
		logger.Warn().Msg("classifier: noop (dev mode, no provider configured)")
	default:
		logger.Fatal().Msgf("no AI provider configured: set ai.openai_key or ai.gemini_key in %s", *cfgPath)
	}

	// ---- Use cases ----
	saveUC := usecase.NewSaveUseCase(schemaRepo, txManager, cfg.Site.URL, logger)
	queueUC := usecase.NewQueueUseCase(jobRepo, contentRepo, classifier, graphBuilder, saveUC, locker, usecase.QueueParams{
		BatchSize:       cfg.Queue.BatchSize,
		MaxAttempts:     cfg.Queue.MaxAttempts,
		LockTTL:         cfg.Queue.LockTTL,
		ClassifyTimeout: cfg.AI.Timeout,
		StaleAfter:      cfg.Queue.StaleAfter,
	}, logger)

	// ---- Scheduler ----
	sched := scheduler.NewScheduler(cfg.Queue.Interval, cfg.Queue.BatchSize, cfg.Queue.ReapEvery, queueUC, logger)
	sched.Start(ctx)
	defer sched.Stop()

	// ---- Admin API ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, cfg.Admin.SecureCookie, cfg.Admin.SessionTTL)
	srv := web.NewServer(queueUC, saveUC, schemaRepo, auth, cfg.Admin.APIKey, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("admin API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
