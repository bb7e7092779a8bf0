package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"garasi/internal/amqp"
	"garasi/internal/backend"
	"garasi/internal/cli"
	apphttp "garasi/internal/http"
	applog "garasi/internal/log"
	"garasi/internal/photo"
)

func main() {
	cli.LoadEnvFile()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := cli.LoadAndValidateConfig(logger.Logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.Create(backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend",
			applog.FieldError, err.Error(),
			"backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", applog.FieldError, err.Error())
			}
		}()
	}

	// The mutation event stream is optional; without a broker the
	// services operate locally.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events",
				applog.FieldError, err.Error())
		} else {
			defer events.Close()
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	photos := photo.NewProcessor(cfg.PhotoMaxWidth)

	srv := apphttp.NewServer(":"+cfg.Port, result.Store, events, photos, logger.WithComponent(applog.ComponentHTTP))
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting garasi server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
