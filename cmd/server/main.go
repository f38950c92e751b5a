package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gravitas-games/tetracoords/internal/config"
	"github.com/gravitas-games/tetracoords/internal/logger"
	"github.com/gravitas-games/tetracoords/internal/server"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/explorer.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.New(cfg.Log.Level); err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.OnExit()

	logger.Sugar.Infof("Starting tetracoord explorer...")
	logger.Sugar.Infof("Configuration loaded from %s", configPath)
	logger.Sugar.Infof("Server will run on %s:%d", cfg.Server.Host, cfg.Server.Port)

	srv, err := server.New(cfg)
	if err != nil {
		logger.Sugar.Errorf("Failed to create server: %v", err)
		return
	}

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Sugar.Infof("Server listening on %s", addr)
		if err := srv.Start(addr); err != nil {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.Sugar.Errorf("Server error: %v", err)
	case sig := <-sigChan:
		logger.Sugar.Infof("Received signal %v, shutting down...", sig)
	}

	if err := srv.Shutdown(); err != nil {
		logger.Sugar.Errorf("Error during shutdown: %v", err)
	}

	logger.Sugar.Infof("Server stopped")
}
