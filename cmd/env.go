package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadflow/leadflow-cli/internal/extract"
	"github.com/leadflow/leadflow-cli/internal/ingest"
	"github.com/leadflow/leadflow-cli/internal/sheets"
	"github.com/leadflow/leadflow-cli/internal/store"
	anthropicpkg "github.com/leadflow/leadflow-cli/pkg/anthropic"
)

// appEnv holds the initialized store and pipeline shared by commands.
type appEnv struct {
	Store    store.Store
	Pipeline *ingest.Pipeline
	Sheets   *sheets.Client
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore opens the configured backend and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	var err error

	switch cfg.Store.Driver {
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("postgres driver needs a database URL (LEADFLOW_STORE_DATABASE_URL)")
		}
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.SQLitePath)
	default:
		return nil, eris.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initEnv sets up the store, the sheet fetcher, and the ingestion
// pipeline. Callers should defer env.Close().
func initEnv(ctx context.Context) (*appEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	var extractor *extract.Extractor
	if cfg.Anthropic.Key != "" {
		extractor = extract.New(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Models)
	} else {
		extractor = extract.New(nil, nil)
		zap.L().Debug("LEADFLOW_ANTHROPIC_KEY not set, model-assisted import disabled")
	}

	sheetClient := sheets.NewClient(sheets.Options{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   time.Duration(cfg.HTTP.TimeoutSecs) * time.Second,
	})

	p := ingest.New(st, extractor, sheetClient, ingest.Options{
		SheetID:         cfg.Sheets.ID,
		SheetName:       cfg.Sheets.Name,
		MaxRows:         cfg.Sheets.MaxRows,
		CustomBlocklist: cfg.DNC.CustomBlocklist,
	})

	return &appEnv{Store: st, Pipeline: p, Sheets: sheetClient}, nil
}
