// One-shot batch runner. Enqueues content and/or drains the queue once, then
// exits. Meant for cron, migrations, and backfills where the long-running
// scheduler is not wanted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"schema-ai-service/internal/config"
	"schema-ai-service/internal/domain/ports/adapter"
	aiAdapters "schema-ai-service/internal/infra/adapters/ai"
	pg "schema-ai-service/internal/infra/db/postgres"
	"schema-ai-service/internal/infra/logging"
	"schema-ai-service/internal/infra/metrics"
	red "schema-ai-service/internal/infra/redis"
	"schema-ai-service/internal/schema/builder"
	"schema-ai-service/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	mode := flag.String("mode", "drain", "all | missing | drain")
	maxJobs := flag.Int("max", 0, "max jobs to process when draining (0 = batch size)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, false)
	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()

	jobRepo := pg.NewSchemaJobRepo(pool)
	contentRepo := pg.NewContentRepo(pool)
	schemaRepo := pg.NewSchemaRepo(pool)
	txManager := pg.NewTxManager(pool)

	var classifier adapter.Classifier
	switch {
	case cfg.AI.OpenAIKey != "":
		classifier, err = aiAdapters.NewOpenAIClassifier(cfg.AI, logger)
	case cfg.AI.GeminiKey != "":
		classifier, err = aiAdapters.NewGeminiClassifier(ctx, cfg.AI, logger)
	default:
		logger.Fatal().Msg("no AI provider configured")
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("classifier")
	}

	graphBuilder := builder.New(builder.Site{
		Name:            cfg.Site.Name,
		URL:             cfg.Site.URL,
		LogoURL:         cfg.Site.LogoURL,
		Language:        cfg.Site.Language,
		WebsiteAllPages: cfg.Site.WebsiteAllPages,
	})
	saveUC := usecase.NewSaveUseCase(schemaRepo, txManager, cfg.Site.URL, logger)
	queueUC := usecase.NewQueueUseCase(jobRepo, contentRepo, classifier, graphBuilder, saveUC, red.NewLocker(redisClient), usecase.QueueParams{
		BatchSize:       cfg.Queue.BatchSize,
		MaxAttempts:     cfg.Queue.MaxAttempts,
		LockTTL:         cfg.Queue.LockTTL,
		ClassifyTimeout: cfg.AI.Timeout,
		StaleAfter:      cfg.Queue.StaleAfter,
	}, logger)

	switch *mode {
	case "all", "missing":
		count, err := queueUC.EnqueueAll(ctx, *mode == "missing")
		if err != nil {
			logger.Fatal().Err(err).Msg("enqueue")
		}
		fmt.Printf("enqueued %d jobs\n", count)
	case "drain":
		n := *maxJobs
		if n <= 0 {
			n = cfg.Queue.BatchSize
		}
		processed, err := queueUC.RunQueue(ctx, n)
		if err != nil {
			logger.Fatal().Err(err).Msg("drain")
		}
		fmt.Printf("processed %d jobs\n", processed)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}
}
