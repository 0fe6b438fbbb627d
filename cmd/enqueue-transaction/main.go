// Command enqueue-transaction publishes a single enrichment request to
// the queue. Handy for re-driving a transaction by hand.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"finguru/internal/amqp"
	"finguru/internal/config"
)

func main() {
	_ = godotenv.Load()

	transactionID := flag.String("transaction", "", "transaction id to enrich")
	userID := flag.String("user", "", "owning user id")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *transactionID == "" || *userID == "" {
		logger.Error("Both -transaction and -user are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to broker", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := client.PublishEnrichment(context.Background(), *transactionID, *userID); err != nil {
		logger.Error("Failed to publish message", "error", err)
		os.Exit(1)
	}
}
