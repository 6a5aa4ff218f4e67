package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/catalogctl/internal/api"
	"github.com/desertthunder/catalogctl/internal/catalog"
	"github.com/desertthunder/catalogctl/internal/repositories"
	"github.com/desertthunder/catalogctl/internal/session"
	"github.com/desertthunder/catalogctl/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	tokenPath, err := config.ResolveTokenPath()
	if err != nil {
		logger.Fatalf("failed to resolve token path: %v", err)
	}
	tokens := session.NewFileStore(tokenPath)

	client := api.New(api.Options{
		BaseURL:   config.API.BaseURL,
		Tokens:    tokens,
		RateLimit: config.API.RateLimit,
		Logger:    logger,
	})

	services := catalog.NewServices(client)
	sessionStore := session.New(services.Auth, tokens, logger)
	client.HandleAuthFailure(sessionStore.Logout)
	guard := session.NewGuard(sessionStore)

	opts := RunnerOpts{
		Config:   config,
		Client:   client,
		Services: services,
		Session:  sessionStore,
		Guard:    guard,
		Logger:   logger,
	}

	// The snapshot database is optional at startup; commands that need it
	// report shared.ErrServiceUnavailable when it is missing.
	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		defer db.Close()
		opts.Tracks = repositories.NewTrackRepository(db)
		opts.Artists = repositories.NewArtistRepository(db)
		opts.Albums = repositories.NewAlbumRepository(db)
	} else {
		logger.Debug("snapshot database unavailable", "path", config.Database.Path, "error", err)
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "catalogctl",
		Usage:    "Admin console for the catalog backend",
		Version:  "0.5.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
