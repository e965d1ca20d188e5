package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spendcast/internal/amqp"
	"spendcast/internal/config"
	"spendcast/internal/forecast"
	apphttp "spendcast/internal/http"
	"spendcast/internal/ledger"
	applog "spendcast/internal/log"
	"spendcast/internal/services"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	reader, cleanup, err := ledger.New(ledger.Config{
		Type:         ledger.BackendType(cfg.LedgerBackend),
		CSVPath:      cfg.LedgerCSVPath,
		SQLiteDBPath: cfg.SQLiteDBPath,
	}, logger.Logger)
	if err != nil {
		logger.Error("Failed to initialize ledger backend", "error", err, "backend", cfg.LedgerBackend)
		os.Exit(1)
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				logger.Error("Ledger cleanup failed", "error", err)
			}
		}()
	}

	// AMQP event publishing is optional; the forecast path works without it.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	// The capability check is explicit: a nil engine makes the service
	// answer every forecast request with the unavailable error.
	var engine services.Engine
	if cfg.ForecastEnabled {
		engine = forecast.NewEngine()
	} else {
		logger.Warn("Forecasting disabled by configuration")
	}

	svc := services.NewForecastService(reader, engine, amqpClient)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Service close failed", "error", err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, svc, reader)
	srv.ReadTimeout = cfg.ReadTimeout
	srv.WriteTimeout = cfg.WriteTimeout
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
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting spendcast server",
		"port", cfg.Port,
		"ledger_backend", cfg.LedgerBackend,
		"forecast_enabled", cfg.ForecastEnabled)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
