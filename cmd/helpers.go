package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/zaidfarekh/flowmatch/internal/config"
	"github.com/zaidfarekh/flowmatch/internal/db"
	"github.com/zaidfarekh/flowmatch/internal/errclass"
	"github.com/zaidfarekh/flowmatch/internal/knowledge"
	"github.com/zaidfarekh/flowmatch/internal/matching"
	"github.com/zaidfarekh/flowmatch/internal/session"
)

// core bundles the dependencies shared by the one-shot and server commands.
type core struct {
	cfg         *config.Config
	store       *knowledge.Store
	scorer      *matching.Scorer
	categorizer *errclass.Categorizer
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `flowmatch init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildCore loads the knowledge base and constructs the matching and
// categorization engines from config.
func buildCore() (*core, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := knowledge.Load(cfg.KnowledgeDir)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge: %w", err)
	}

	return &core{
		cfg:         cfg,
		store:       store,
		scorer:      matching.NewScorer(store.MatchingConfig(), store.Catalog(), cfg.DefaultFlow, cfg.Thresholds.Typo),
		categorizer: errclass.New(cfg.Thresholds.Error),
	}, nil
}

// openSessions opens the session database under the configured data dir.
// The caller owns closing the returned DB.
func openSessions(cfg *config.Config) (*db.DB, *session.Store, error) {
	dbPath := filepath.Join(cfg.DataDir, "flowmatch.db")
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	return database, session.NewStore(database, nil, ttl), nil
}
