package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finguru/internal/amqp"
	"finguru/internal/categorize"
	"finguru/internal/config"
	"finguru/internal/embedding"
	"finguru/internal/processor"
	"finguru/internal/retry"
	"finguru/internal/stats"
	"finguru/internal/storage"
	"finguru/internal/taxonomy"
	"finguru/internal/vectorstore"
)

// Per-resource connection policies. Only broker exhaustion is fatal; the
// vector store degrades to embeddings-disabled and the relational policy
// applies per processed message.
var (
	brokerRetry = retry.Policy{MaxAttempts: 10, Delay: 5 * time.Second}
	vectorRetry = retry.Policy{MaxAttempts: 5, Delay: 5 * time.Second}
	dbRetry     = retry.Policy{MaxAttempts: 5, Delay: 3 * time.Second}
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("Starting transaction processor worker",
		"database", cfg.DatabasePath,
		"queue", cfg.AMQPQueue,
		"weaviate", cfg.WeaviateURL,
		"embedding_model", cfg.EmbeddingModel)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewRepository(cfg.DatabasePath)
	if err != nil {
		logger.Error("Failed to initialize relational store", "error", err, "path", cfg.DatabasePath)
		os.Exit(1)
	}
	defer repo.Close()

	embedder, vectors := connectVectorPipeline(ctx, cfg)

	tracker := stats.New()
	proc := processor.NewProcessor(
		repo,
		categorize.New(taxonomy.Default()),
		embedder,
		vectors,
		tracker,
		dbRetry,
	)

	var amqpClient *amqp.Client
	err = brokerRetry.Do(ctx, "connect to broker", func() error {
		var dialErr error
		amqpClient, dialErr = amqp.NewClient(cfg.AMQPURL, cfg.AMQPQueue)
		return dialErr
	})
	if err != nil {
		logger.Error("Failed to connect to broker, giving up", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.Consume(gctx, proc)
	})

	logger.Info("Worker ready and waiting for messages", "queue", cfg.AMQPQueue)

	<-gctx.Done()
	logger.Info("Shutting down worker")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
	}

	snap := tracker.Snapshot()
	logger.Info("Final processing statistics",
		"processed", snap.Processed,
		"categorized", snap.Categorized,
		"embedded", snap.Embedded,
		"errors", snap.Errors)
}

// connectVectorPipeline brings up the vector store and the embedding
// client together; losing either disables the embedding step while
// categorization keeps running.
func connectVectorPipeline(ctx context.Context, cfg *config.Config) (embedding.Embedder, processor.VectorWriter) {
	if !cfg.VectorStoreEnabled() {
		slog.InfoContext(ctx, "Vector store not configured, embeddings disabled")
		return nil, nil
	}

	vectorClient := vectorstore.New(cfg.WeaviateURL, cfg.VectorTimeout)
	err := vectorRetry.Do(ctx, "connect to vector store", func() error {
		return vectorClient.Ready(ctx)
	})
	if err != nil {
		slog.WarnContext(ctx, "Vector store unreachable, continuing without embeddings", "error", err)
		return nil, nil
	}

	if err := vectorClient.EnsureSchema(ctx); err != nil {
		// The class usually exists already; a bootstrap failure is not
		// worth losing categorization over.
		slog.WarnContext(ctx, "Vector store schema initialization failed", "error", err)
	}

	embedClient, err := embedding.NewClient(embedding.Config{
		Host:    cfg.EmbeddingHost,
		Model:   cfg.EmbeddingModel,
		Dim:     cfg.EmbeddingDim,
		Timeout: cfg.EmbeddingTimeout,
	})
	if err != nil {
		slog.WarnContext(ctx, "Embedding client initialization failed, continuing without embeddings", "error", err)
		return nil, nil
	}

	slog.InfoContext(ctx, "Vector pipeline ready",
		"weaviate", cfg.WeaviateURL,
		"model", cfg.EmbeddingModel)
	return embedClient, vectorClient
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
