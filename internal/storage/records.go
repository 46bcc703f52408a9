package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/adjei-dev/tremorlens/internal/model"
)

// SaveScreening records one completed analysis.
func (s *SQLiteStorage) SaveScreening(ctx context.Context, rec model.Screening) error {
	if rec.ID == "" {
		return fmt.Errorf("screening id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO screenings
		 (id, name, age, gender, spiral_score, wave_score, positive, confidence, result, report_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Age, rec.Gender,
		rec.SpiralScore, rec.WaveScore, rec.Positive, rec.Confidence,
		rec.Result, rec.ReportPath)
	if err != nil {
		return fmt.Errorf("failed to save screening: %w", err)
	}
	return nil
}

// RecentScreenings returns up to limit screenings, newest first.
func (s *SQLiteStorage) RecentScreenings(ctx context.Context, limit int) ([]model.Screening, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, age, gender, spiral_score, wave_score, positive, confidence, result, report_path, created_at
		 FROM screenings ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query screenings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Screening
	for rows.Next() {
		var rec model.Screening
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Age, &rec.Gender,
			&rec.SpiralScore, &rec.WaveScore, &rec.Positive, &rec.Confidence,
			&rec.Result, &rec.ReportPath, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan screening: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveContactMessage stores a contact-form submission.
func (s *SQLiteStorage) SaveContactMessage(ctx context.Context, msg model.ContactMessage) error {
	if strings.TrimSpace(msg.Email) == "" || strings.TrimSpace(msg.Message) == "" {
		return fmt.Errorf("contact message requires email and message")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_messages (name, email, subject, message) VALUES (?, ?, ?, ?)`,
		msg.Name, msg.Email, msg.Subject, msg.Message)
	if err != nil {
		return fmt.Errorf("failed to save contact message: %w", err)
	}
	return nil
}

// SubscribeNewsletter adds an address to the newsletter list. Returns
// ErrDuplicateEmail if it is already subscribed.
func (s *SQLiteStorage) SubscribeNewsletter(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO newsletter_subscribers (email) VALUES (?)`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	return nil
}
