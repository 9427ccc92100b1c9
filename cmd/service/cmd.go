package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/GregMSThompson/finance-tracker/internal/config"
	"github.com/GregMSThompson/finance-tracker/internal/events"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

// The alert worker drains the budget alert queue the API publishes to.

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	cfg := config.New()
	log := logger.New(cfg.LogLevel, logger.ForFormat(cfg.LogFormat))
	slog.SetDefault(log)

	exitOnError("invalid configuration", cfg.Validate(), log)
	if cfg.AMQPURL == "" {
		exitOnError("alert worker needs a broker", errors.New("AMQP_URL is not set"), log)
	}

	client, err := events.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	exitOnError("amqp connect failed", err, log)
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.ToContext(ctx, log.With("component", "alert-worker"))

	notifier := events.NewNotifier()
	err = client.ConsumeBudgetAlerts(ctx, notifier.HandleBudgetAlert)
	if err != nil && !errors.Is(err, context.Canceled) {
		client.Close()
		exitOnError("alert consumption stopped", err, log)
	}
	log.Info("alert worker stopped")
}
