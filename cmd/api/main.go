package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/cajero-dev/cajero/internal/classify"
	classifyStore "github.com/cajero-dev/cajero/internal/classify/store"
	"github.com/cajero-dev/cajero/internal/config"
	"github.com/cajero-dev/cajero/internal/database"
	"github.com/cajero-dev/cajero/internal/dispatch"
	cajeroHttp "github.com/cajero-dev/cajero/internal/http"
	importHandler "github.com/cajero-dev/cajero/internal/http/importcsv"
	ledgerHandler "github.com/cajero-dev/cajero/internal/http/ledgerfile"
	movementHandler "github.com/cajero-dev/cajero/internal/http/movement"
	reconcileHandler "github.com/cajero-dev/cajero/internal/http/reconcile"
	rulesHandler "github.com/cajero-dev/cajero/internal/http/rules"
	"github.com/cajero-dev/cajero/internal/importer"
	"github.com/cajero-dev/cajero/internal/ledger"
	ledgerStore "github.com/cajero-dev/cajero/internal/ledger/store"
	"github.com/cajero-dev/cajero/internal/movement"
	movementStore "github.com/cajero-dev/cajero/internal/movement/store"
	"github.com/cajero-dev/cajero/internal/reconcile"
	reconcileStore "github.com/cajero-dev/cajero/internal/reconcile/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ruleStore := classifyStore.New(db)

	rules, err := ruleStore.LoadRules(ctx)
	if err != nil {
		slog.Error("failed to load classification rules", "error", err)
		os.Exit(1)
	}

	slog.Info("classification rules loaded", "count", len(rules))

	var (
		engine           = classify.NewEngine(rules, slog.Default())
		movementService  = movement.NewService(movementStore.New(db))
		importService    = importer.NewService()
		ledgerService    = ledger.NewService(ledgerStore.New(db))
		reconcileService = reconcile.NewService(reconcileStore.New(db))
		dispatchService  = dispatch.NewService(cfg.Dispatch.URL, cfg.Dispatch.Token, cfg.Dispatch.Timeout, slog.Default())
	)

	var (
		importH    = importHandler.NewHandler(importService, movementService)
		movementH  = movementHandler.NewHandler(movementService, engine, dispatchService)
		rulesH     = rulesHandler.NewHandler(ruleStore, engine)
		ledgerH    = ledgerHandler.NewHandler(ledgerService)
		reconcileH = reconcileHandler.NewHandler(reconcileService)
	)

	router := cajeroHttp.New(cfg.Server.CORSOrigin, importH, movementH, rulesH, ledgerH, reconcileH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "dispatch_enabled", dispatchService.Enabled())

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
