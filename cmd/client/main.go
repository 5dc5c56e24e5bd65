package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/youthlink/youthlink/internal/api"
	"github.com/youthlink/youthlink/internal/config"
	"github.com/youthlink/youthlink/internal/logging"
	"github.com/youthlink/youthlink/internal/netx"
	"github.com/youthlink/youthlink/internal/notifications"
	"github.com/youthlink/youthlink/internal/session"
	"github.com/youthlink/youthlink/internal/storage"
	"github.com/youthlink/youthlink/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "youthlink: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal")
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	logFile, err := os.OpenFile("youthlink.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log := logging.NewDefault(logFile, slog.LevelInfo)

	db, err := storage.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	repo := storage.NewSQLiteRepository(db)
	tokens := storage.NewTokenStore(repo)
	client := api.New(cfg.APIBaseURL, tokens, cfg.RequestTimeout)

	// Navigation flows from the session manager into the running program.
	// The program does not exist yet, so route through a pointer filled in
	// below; nothing navigates before Run starts processing messages.
	var program *tea.Program

	manager := session.NewManager(session.Config{
		API:    client,
		Tokens: tokens,
		Online: netx.Probe(cfg.ProbeAddr, 2*time.Second),
		Navigate: func(path string) {
			if program != nil {
				program.Send(tui.NavigateMsg{Path: path})
			}
		},
		Log: log,
	})

	// Any 401 on any API call purges the stored token inside the client;
	// this hook drops the in-memory session in the same stroke.
	client.SetOnUnauthorized(manager.HandleUnauthorized)

	// Restore a previous session before the first frame renders.
	manager.Bootstrap(ctx)

	center := notifications.New(notifications.Config{
		Store:         repo,
		Session:       manager,
		ToastDelay:    cfg.ToastDuration,
		AutoReadDelay: cfg.AutoReadDelay,
		Log:           log,
	})
	defer center.Close()

	app := tui.NewApp(manager, center)
	program = tea.NewProgram(app, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
