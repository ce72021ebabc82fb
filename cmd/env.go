package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashai/internal/cardgen"
	"github.com/abhisek/flashai/internal/config"
	"github.com/abhisek/flashai/internal/library"
	"github.com/abhisek/flashai/internal/llm"
	"github.com/abhisek/flashai/internal/logger"
	"github.com/abhisek/flashai/internal/store"
)

// env holds what every command needs: config, logger and the open store.
type env struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store
}

// loadConfig reads the config file named by --config, FLASHAI_CONFIG or the default path.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// openEnv loads config, starts the logger and opens the store.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("start logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("store opened", "path", dbPath)

	return &env{cfg: cfg, log: log, store: st}, nil
}

func (e *env) Close() {
	e.store.Close()
	e.log.Sync()
}

// provider builds the configured LLM provider, falling back to standard API key variables.
func (e *env) provider(ctx context.Context) (llm.Provider, error) {
	cfg, err := llm.Resolve(e.cfg.LLM)
	if err != nil {
		return nil, err
	}
	return llm.NewProvider(ctx, cfg, e.store.EventRepo(), e.log.Zap())
}

// library loads the library service. With a generator the service can create decks.
func (e *env) library(ctx context.Context, gen cardgen.Generator) (*library.Service, error) {
	svc := library.NewService(e.store.LibraryRepo(e.log.Zap()), gen, e.log.Zap())
	if err := svc.Load(ctx); err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}
	return svc, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (FLASHAI_DB), then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}
