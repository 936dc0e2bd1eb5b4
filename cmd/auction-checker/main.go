// Command auction-checker is an interactive browser for SkyBlock auctions.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/johan/skyblock-auctions/internal/config"
	"github.com/johan/skyblock-auctions/internal/logging"
	"github.com/johan/skyblock-auctions/internal/session"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	envPath := flag.String("env", ".env", "Path to environment file")
	flag.Parse()

	if err := config.LoadEnvFile(*envPath); err != nil {
		log.Fatalf("Error loading env file: %v", err)
	}

	// Load configuration, falling back to defaults without a file
	cfg, found, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("Error reading environment: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Error setting up logging: %v", err)
	}
	if !found {
		logger.Infof("Config file %s not found, using defaults", *configPath)
	}

	svc, err := session.NewService(cfg, session.WithLogger(logger))
	if err != nil {
		logger.Fatalf("Error creating session: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		fmt.Printf("\nReceived signal %v, shutting down...\n", sig)
		cancel()
	}()

	if err := svc.Run(ctx); err != nil {
		logger.Fatalf("Session error: %v", err)
	}
}
