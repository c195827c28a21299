package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cinelog/internal/config"
	"cinelog/internal/database"
	"cinelog/internal/logger"
	"cinelog/internal/server"
)

func main() {
	// .env is optional, real environment wins
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded environment from .env")
	}

	configPath := os.Getenv("CINELOG_CONFIG_PATH")
	if configPath == "" {
		if _, err := os.Stat("./cinelog.yaml"); err == nil {
			configPath = "./cinelog.yaml"
		}
	}

	if err := config.Load(configPath); err != nil {
		logger.Warn("failed to load configuration from %q: %v, using defaults", configPath, err)
	}

	if err := database.Initialize(); err != nil {
		logger.Error("failed to initialize database: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if configPath != "" {
		if err := config.WatchFile(ctx, configPath); err != nil {
			logger.Warn("config hot reload unavailable: %v", err)
		}
	}

	r := server.SetupRouter()
	cfg := config.Get()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down gracefully...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Info("cinelog listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error: %v", err)
		os.Exit(1)
	}
}
