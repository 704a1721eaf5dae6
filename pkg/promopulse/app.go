// Package promopulse wires the promoter KPI tracker together: config
// parsing, store assembly and the HTTP API.
package promopulse

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/promopulse/promopulse/pkg/store"
	"github.com/promopulse/promopulse/pkg/store/failover"
	"github.com/promopulse/promopulse/pkg/store/local"
	"github.com/promopulse/promopulse/pkg/store/remote"
)

// Config holds application configuration, filled by [Parse] from flags
// and environment variables.
type Config struct {
	SurrealDBURL  string
	SurrealDBNS   string
	SurrealDBDB   string
	SurrealDBUser string
	SurrealDBPass string

	// DataDir is where the local fallback store keeps its JSON files.
	DataDir string

	ServerPort string

	// LocalOnly skips the SurrealDB connection entirely.
	LocalOnly bool
}

// RemoteConfig returns the SurrealDB connection settings.
func (c *Config) RemoteConfig() remote.Config {
	return remote.Config{
		URL:       c.SurrealDBURL,
		Namespace: c.SurrealDBNS,
		Database:  c.SurrealDBDB,
		Username:  c.SurrealDBUser,
		Password:  c.SurrealDBPass,
	}
}

// App holds the application state.
type App struct {
	store    *failover.Store
	config   *Config
	log      zerolog.Logger
	validate *validator.Validate
}

// New assembles the store stack. The local store must come up or the
// application cannot run at all; the remote store is best effort, and a
// failed connection just means this session serves from local from the
// start.
func New(config *Config, log zerolog.Logger) (*App, error) {
	localStore, err := local.New(config.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	var remoteStore store.Store
	if !config.LocalOnly {
		ctx, cancel := context.WithTimeout(context.Background(), failover.DefaultTimeout)
		rs, err := remote.New(ctx, config.RemoteConfig(), log)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("remote store unavailable, running on local store")
		} else {
			remoteStore = rs
			log.Info().Str("url", config.SurrealDBURL).Msg("connected to SurrealDB")
		}
	}

	return &App{
		store:    failover.New(remoteStore, localStore, log),
		config:   config,
		log:      log,
		validate: validator.New(),
	}, nil
}

// Store returns the combined store, useful for tests.
func (a *App) Store() store.Store {
	return a.store
}

// Close releases the store stack.
func (a *App) Close() error {
	return a.store.Close()
}
