package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotdash/internal/server"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/shared"
)

// Serve runs the dashboard web server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	store := r.store
	if store == nil {
		store = openStore(r.config, r.logger)
	}
	defer store.Close()

	srv := server.New(r.config, store, r.logger)
	r.logger.Info("starting dashboard server", "addr", srv.Addr)
	r.writePlain("Dashboard listening on http://%s\n", srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		r.logger.Info("shutting down")
		return srv.Shutdown(context.Background())
	}
}

// Setup writes a starter config file and prepares the cache backend.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.writePlain("Config already exists at %s\n", configPath)
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("✓ Created %s — fill in your Spotify credentials\n", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		r.logger.Warn("failed to load created config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}

	store := openStore(config, r.logger)
	defer store.Close()
	r.writePlain("✓ Cache backend ready (%s)\n", config.Cache.Backend)
	return nil
}

// CacheClear drops every cached response for the signed-in user.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil {
		return fmt.Errorf("%w: no cache backend configured", shared.ErrCacheUnavailable)
	}
	return r.withClient(func(client *services.SpotifyClient) error {
		if err := client.ClearUserCache(ctx); err != nil {
			return err
		}
		return r.writePlain("✓ Cache cleared\n")
	})
}
