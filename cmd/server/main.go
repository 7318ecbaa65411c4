package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mfcastro/riskdash/internal/clients/yahoo"
	"github.com/mfcastro/riskdash/internal/config"
	"github.com/mfcastro/riskdash/internal/database"
	"github.com/mfcastro/riskdash/internal/modules/history"
	"github.com/mfcastro/riskdash/internal/modules/indicators"
	"github.com/mfcastro/riskdash/internal/modules/planning"
	"github.com/mfcastro/riskdash/internal/modules/portfolio"
	"github.com/mfcastro/riskdash/internal/scheduler"
	"github.com/mfcastro/riskdash/internal/server"
	"github.com/mfcastro/riskdash/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting riskdash")

	// Initialize database
	db, err := database.New(filepath.Join(cfg.DataDir, "riskdash.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Price history: per-symbol caches + upstream chart client
	store, err := history.NewStore(filepath.Join(cfg.DataDir, "history"), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize price cache")
	}
	prices := history.NewService(store, yahoo.NewClient(log), db, cfg.HistoryRange, log)

	// Analytics modules
	optimizer := portfolio.NewOptimizer(log)
	planner := planning.NewPlanner(log)
	riskSvc := indicators.NewService(cfg.PeriodsPerYear, log)

	// Initialize scheduler and register background jobs
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	if err := sched.AddJob("@daily", history.NewSyncJob(prices)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register sync job")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
		Log:     log,
		DB:      db,
		Portfolio: portfolio.NewHandler(
			prices, optimizer, cfg.PeriodsPerYear, cfg.RiskFreeRate, cfg.FrontierPoints, log,
		),
		Planning:   planning.NewHandler(prices, planner, cfg.PeriodsPerYear, cfg.NumSimulations, log),
		Indicators: indicators.NewHandler(riskSvc, prices, cfg.RiskFreeRate, log),
		History:    history.NewHandler(prices, log),
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
