package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/moneyballs/internal/app"
	"github.com/MrJamesThe3rd/moneyballs/internal/config"
	moneyballsHttp "github.com/MrJamesThe3rd/moneyballs/internal/http"
	entryHandler "github.com/MrJamesThe3rd/moneyballs/internal/http/entry"
	"github.com/MrJamesThe3rd/moneyballs/internal/importer"
	"github.com/MrJamesThe3rd/moneyballs/internal/ledger"
	"github.com/MrJamesThe3rd/moneyballs/internal/notify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	remote, closeRemote, err := app.OpenRemote(ctx, cfg)
	if err != nil {
		slog.Error("failed to open ledger backend", "error", err, "backend", cfg.Ledger.Backend)
		os.Exit(1)
	}
	defer closeRemote()

	logger := slog.Default().With("app", cfg.App.Name)

	store := ledger.New(remote, notify.NewLog(logger), app.LedgerOptions(cfg, logger))
	defer store.Close()

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Server.Timeout)
	defer cancel()

	// A failed first load is not fatal; POST /reload retries it.
	if err := store.Load(loadCtx); err != nil {
		slog.Warn("initial ledger load failed", "error", err)
	}

	router := moneyballsHttp.New(entryHandler.NewHandler(store, importer.NewService()))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "port", srv.Addr, "backend", cfg.Ledger.Backend)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
