package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application
// expects.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS screenings (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					age INTEGER NOT NULL,
					gender TEXT NOT NULL,
					spiral_score REAL NOT NULL,
					wave_score REAL NOT NULL,
					positive INTEGER NOT NULL,
					confidence REAL NOT NULL,
					result TEXT NOT NULL,
					report_path TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_screenings_created ON screenings(created_at)`,

				`CREATE TABLE IF NOT EXISTS contact_messages (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					email TEXT NOT NULL,
					subject TEXT,
					message TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Newsletter subscribers",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS newsletter_subscribers (
				email TEXT PRIMARY KEY,
				subscribed_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`)
			return err
		},
	},
}

// Migrate brings the schema up to ExpectedSchemaVersion, applying each
// pending migration in its own transaction.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_versions (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create schema_versions table: %w", err)
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		slog.Info("applied migration", "version", m.Version, "description", m.Description)
	}
	return nil
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	row := s.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_versions`)
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(version.Int64), nil
}

func (s *SQLiteStorage) applyMigration(ctx context.Context, m Migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := m.Up(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_versions (version) VALUES (?)`, m.Version); err != nil {
		return err
	}
	return tx.Commit()
}
