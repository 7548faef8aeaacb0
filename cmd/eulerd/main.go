package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/msto63/euler/internal/euler/app"
	"github.com/msto63/euler/internal/euler/rpc"
	"github.com/msto63/euler/internal/euler/server"
	"github.com/msto63/euler/pkg/core/config"
	"github.com/msto63/euler/pkg/core/logging"
	"github.com/msto63/euler/pkg/core/version"
)

func main() {
	logger := logging.New("eulerd")
	logger.Info("Starting Euler calculator server", "version", version.Server)

	// Load configuration
	cfg, err := config.LoadOrDefault()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	a, err := app.New(cfg, app.Options{LogOutput: os.Stdout})
	if err != nil {
		logger.Error("Failed to initialize calculator", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// Create server
	srv, err := server.New(serverConfig(a), a.Session)
	if err != nil {
		logger.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	// Start server
	if err := srv.StartAsync(); err != nil {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}

	logger.Info("Euler calculator server started", "address", srv.Address())

	var rpcSrv *rpc.Server
	if rpcCfg, ok := a.RPCConfig(); ok {
		rpcSrv, err = rpc.New(rpcCfg, a.Session)
		if err == nil {
			err = rpcSrv.StartAsync()
		}
		if err != nil {
			logger.Error("Failed to start gRPC server", "error", err)
			os.Exit(1)
		}
		logger.Info("Euler gRPC server started", "address", rpcSrv.Address())
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutdown signal received, stopping server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if rpcSrv != nil {
		rpcSrv.Stop(ctx)
	}
	if err := srv.Stop(ctx); err != nil {
		logger.Error("Error during shutdown", "error", err)
	}

	logger.Info("Euler calculator server stopped")
}

// serverConfig applies EULER_HOST and EULER_PORT on top of the config file
func serverConfig(a *app.App) server.Config {
	cfg := a.ServerConfig(version.Server)
	if host := os.Getenv("EULER_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("EULER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	return cfg
}
