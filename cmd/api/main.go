package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/ledgerkit/keystone/internal/cleaner"
	"github.com/ledgerkit/keystone/internal/config"
	keystoneHttp "github.com/ledgerkit/keystone/internal/http"
	cleanHandler "github.com/ledgerkit/keystone/internal/http/clean"
	leaseHandler "github.com/ledgerkit/keystone/internal/http/lease"
	"github.com/ledgerkit/keystone/internal/rates"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rateTable, err := rates.New(cfg.Rates.Base, cfg.Rates.Pairs)
	if err != nil {
		slog.Error("failed to load rate table", "error", err)
		os.Exit(1)
	}

	cleanService := cleaner.NewService(rateTable)

	var (
		cleanH = cleanHandler.NewHandler(cleanService, cfg.Server.MaxUploadBytes)
		leaseH = leaseHandler.NewHandler()
	)

	router := keystoneHttp.New(cleanH, leaseH, cfg.CORS.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", server.Addr, "base_currency", rateTable.Base())

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
