package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/dashcore/internal/config"
	"github.com/diewo77/dashcore/internal/db"
	"github.com/diewo77/dashcore/internal/logging"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logging.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}
	rules, err := cfg.Risk.Rules()
	if err != nil {
		logger.Error("invalid risk rules", "error", err.Error())
		os.Exit(1)
	}

	// Money goes out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("connecting to database", "database", cfg.Database)
	dbConn, err := db.Open(ctx, cfg.Database, db.DefaultRetry, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err.Error())
		os.Exit(1)
	}

	if *migrateOnlyFlag || cfg.App.Migrations {
		if err := db.Migrate(dbConn); err != nil {
			logger.Error("migration failed", "error", err.Error())
			os.Exit(1)
		}
		logger.Info("migrations completed")
		if *migrateOnlyFlag {
			return
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(dbConn, rules, logger),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port, "dev", cfg.App.Dev)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err.Error())
	}
	logger.Info("server stopped gracefully")
}
