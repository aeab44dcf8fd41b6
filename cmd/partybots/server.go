package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/partybots/cmd/partybots/shared"
	"github.com/lox/partybots/internal/results"
	"github.com/lox/partybots/internal/server"
)

// ServerCmd contains core server configuration
type ServerCmd struct {
	Addr     string `kong:"help='Server address (overrides config)'"`
	Config   string `kong:"default='partybots.hcl',help='Path to HCL config file'"`
	Database string `kong:"help='Path to the results database (overrides config)'"`
	Debug    bool   `kong:"help='Enable debug logging'"`
	Seed     *int64 `kong:"help='Deterministic RNG seed (optional)'"`
}

func (c *ServerCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Database != "" {
		cfg.Server.DatabasePath = c.Database
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
		logger.Info("Using random seed", "seed", seed)
	}

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	store, err := results.Open(cfg.Server.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("opening results store: %w", err)
	}
	defer store.Close()

	srv := server.NewServer(addr, logger)
	svc := server.NewRoomService(srv, cfg, store, logger, seed, quartz.NewReal())
	srv.SetRoomService(svc)

	logger.Info("Starting partybots server",
		"addr", addr,
		"night_seconds", cfg.Mafia.NightSeconds,
		"day_seconds", cfg.Mafia.DaySeconds,
		"deck_mode", cfg.Blackjack.DeckMode,
		"approval", cfg.Blackjack.Approval,
		"database", cfg.Server.DatabasePath,
	)

	ctx := shared.SetupSignalHandler(logger)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		return srv.Stop()
	})
	return g.Wait()
}
