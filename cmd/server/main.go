package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-hr/internal/app"
	"smart-hr/internal/config"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[Boot] .env not loaded: %v", err)
	}

	if err := run(); err != nil {
		log.Fatalf("[Boot] %v", err)
	}
}

// run serves until SIGINT or SIGTERM, then drains HTTP before the container
// flushes the persistence queue and closes its connections.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		return err
	}

	srv, cleanup, err := app.Bootstrap(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Printf("[Boot] cleanup error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Fiber.Listen(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("[Boot] shutting down timeout=%s", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Fiber.ShutdownWithContext(shutdownCtx)
}
