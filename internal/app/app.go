// Package app wires a ledger store to the backend selected by config. Both
// binaries start from here.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/moneyballs/internal/config"
	"github.com/MrJamesThe3rd/moneyballs/internal/database"
	"github.com/MrJamesThe3rd/moneyballs/internal/entry/memory"
	"github.com/MrJamesThe3rd/moneyballs/internal/entry/store"
	"github.com/MrJamesThe3rd/moneyballs/internal/ledger"
)

// OpenRemote returns the remote ledger service for cfg and a func that
// releases it.
func OpenRemote(ctx context.Context, cfg *config.Config) (ledger.Remote, func(), error) {
	if cfg.Ledger.Backend == config.BackendMemory {
		return memory.New(), func() {}, nil
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := store.New(db, cfg.ConnectionString(), cfg.Ledger.FeedRetry)

	if cfg.Ledger.Migrate {
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}

	return s, func() { _ = db.Close() }, nil
}

func LedgerOptions(cfg *config.Config, logger *slog.Logger) ledger.Options {
	opts := ledger.Options{
		IDs:           ledger.IDServer,
		Ordering:      cfg.Ledger.Ordering,
		DedupeInserts: cfg.Ledger.DedupeInserts,
		Logger:        logger,
	}

	if cfg.Ledger.IDs == "client" {
		opts.IDs = ledger.IDClient
	}

	return opts
}
