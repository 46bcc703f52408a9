package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adjei-dev/tremorlens/internal/classify"
	"github.com/adjei-dev/tremorlens/internal/handlers"
	"github.com/adjei-dev/tremorlens/internal/report"
	"github.com/adjei-dev/tremorlens/internal/storage"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the screening web server",
		RunE:  runServe,
	}

	cmd.Flags().String("port", "8080", "HTTP listen port")
	cmd.Flags().String("models-dir", "models", "directory holding the four model artifacts")
	cmd.Flags().String("reports-dir", "reports", "directory reports are written to and served from")
	cmd.Flags().String("database", "data/tremorlens.db", "SQLite database path")

	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.models_dir", cmd.Flags().Lookup("models-dir"))
	_ = viper.BindPFlag("server.reports_dir", cmd.Flags().Lookup("reports-dir"))
	_ = viper.BindPFlag("server.database", cmd.Flags().Lookup("database"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	reportsDir := viper.GetString("server.reports_dir")
	if err := os.MkdirAll(reportsDir, 0o750); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(viper.GetString("server.database"))
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Both classifiers must load before we serve a single request.
	provider := classify.NewProvider(viper.GetString("server.models_dir"))
	if err := provider.Load(); err != nil {
		return fmt.Errorf("failed to load classifiers: %w", err)
	}
	defer provider.Close()

	handler := handlers.NewHandler(report.NewGenerator(provider), store, reportsDir)
	mux := http.NewServeMux()
	handler.Register(mux)

	addr := ":" + viper.GetString("server.port")
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", addr,
			"models_dir", viper.GetString("server.models_dir"),
			"reports_dir", reportsDir)
		errChan <- server.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		slog.Info("server stopped")
		return nil
	}
}
