package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adjei-dev/tremorlens/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath := viper.GetString("server.database")
			if cmd.Flags().Changed("database") {
				dbPath, _ = cmd.Flags().GetString("database")
			}

			store, err := storage.NewSQLiteStorage(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			slog.Info("database up to date", "version", storage.ExpectedSchemaVersion)
			return nil
		},
	}

	cmd.Flags().String("database", "data/tremorlens.db", "SQLite database path")
	return cmd
}
