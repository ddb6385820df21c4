// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopbackend/internal/cleanup"
	"shopbackend/internal/config"
	"shopbackend/internal/data"
	"shopbackend/internal/logger"
	"shopbackend/internal/menu"
	"shopbackend/internal/shop"
)

func main() {
	// Step 1: Setup configuration first
	config.LoadEnv()
	if err := config.ConfigurePaths(); err != nil {
		log.Fatalf("Failed to configure paths: %v", err)
	}

	// Step 2: Setup logging
	if err := logger.SetupLogger(config.LoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.LogInfo("Environment and paths loaded. Logger ready.")
	config.LogCurrentEnvironment()

	// Drop log files past retention before starting
	if _, err := cleanup.PruneLogs(config.LoggerConfig(), cleanup.Retention(config.LogRetentionDays()), time.Now()); err != nil {
		logger.LogWarn("Log cleanup skipped: %v", err)
	}

	// Step 3: Open the store and load every collection
	store, err := data.OpenStore(config.StoreConfig())
	if err != nil {
		logger.LogFatal("Failed to open store: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := shop.Open(ctx, store)
	if err != nil {
		logger.LogFatal("Failed to load data: %v", err)
	}
	svc.SetClock(func() time.Time { return time.Now().In(logger.Location()) })

	// Step 4: Run the interactive session loop
	if err := menu.New(svc, os.Stdin, os.Stdout).Run(ctx); err != nil {
		logger.LogError("Session ended with error: %v", err)
		os.Exit(1)
	}
}
