// Package main - Entry point for the cheapest-operator lookup server
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"operator-pricing/api"
	"operator-pricing/db/ingestion"
	"operator-pricing/internal/config"
	"operator-pricing/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "Config file")
	addr := flag.String("addr", "", "Server address (overrides config)")
	manifest := flag.String("manifest", "", "Operator manifest (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *manifest != "" {
		cfg.Pricing.Manifest = *manifest
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	if err := run(cfg); err != nil {
		logging.Error("server failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, err := ingestion.LoadManifest(cfg.Pricing.Manifest)
	if err != nil {
		return err
	}

	v := ingestion.NewValidator()
	v.SetMinPrefixes(cfg.Pricing.MinPrefixes)
	v.SetMaxPrice(cfg.Pricing.MaxPrice)

	loaded, err := ingestion.LoadBook(ctx, m, ingestion.BookOptions{
		Read:      ingestion.ReadOptions{Strict: cfg.Pricing.Strict},
		Validator: v,
	})
	if err != nil {
		return err
	}

	apiServer := api.NewServer(version, loaded.Book, logging.Logger)

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiServer))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("listening",
			zap.String("addr", cfg.Server.Addr),
			zap.Int("operators", loaded.Book.Len()),
			zap.Duration("load", loaded.Duration))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
