package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"garasi/internal/amqp"
	"garasi/internal/cli"
	applog "garasi/internal/log"
	"garasi/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := applog.New(applog.Config{
		Level:     applog.DefaultConfig().Level,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting garasi-worker")

	cfg := cli.LoadAndValidateConfig(logger.Logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err.Error())
		os.Exit(1)
	}
	defer amqpClient.Close()

	auditWorker, err := worker.NewAuditWorker(cfg.AuditLogPath)
	if err != nil {
		logger.Error("Failed to initialize audit worker", applog.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeMutations(ctx, auditWorker.HandleMutation)
	})

	logger.Info("Audit worker consuming mutation events",
		"queue", cfg.AMQPQueue,
		"audit_log", cfg.AuditLogPath)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
