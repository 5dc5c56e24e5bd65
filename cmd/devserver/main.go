package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/youthlink/youthlink/internal/devserver"
	"github.com/youthlink/youthlink/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "devserver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "127.0.0.1:8080", "listen address")
	secret := flag.String("secret", "dev-only-secret", "JWT signing secret")
	seedPassword := flag.String("seed-password", "demo-pass-123", "password for the seeded demo accounts")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.NewDefault(os.Stdout, slog.LevelInfo)

	srv := devserver.NewServer(*secret, log)
	if err := srv.SeedDemoUsers(*seedPassword); err != nil {
		return fmt.Errorf("seed demo users: %w", err)
	}
	log.Info(ctx, "demo accounts ready",
		"users", "youth@demo.local employer@demo.local admin@demo.local verifier@demo.local")

	if err := srv.Run(ctx, *addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
