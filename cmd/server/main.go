package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mammy-coker-hub/internal/app"
	"mammy-coker-hub/internal/config"
	"mammy-coker-hub/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.App.LogLevel).With("app", cfg.App.AppName, "env", cfg.App.Environment)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, cleanup, err := app.InitializeServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to bootstrap app", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		logger.Error("invalid HTTP port", "error", err)
		return
	}

	server.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr, "identity", cfg.Identity.Mode)
		errCh <- server.Fiber.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
		logger.Info("http server stopped")
	}
}
