package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/prescription-api/config"
)

func NewDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Connections older than ConnMaxLifetime are recycled so the pool never
	// hands out a socket the server already dropped.
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// WaitForDB blocks until the database answers a ping, retrying with a fixed
// delay, and fails after maxRetries attempts. Called once at startup before
// schema setup; per-request paths never retry.
func WaitForDB(cfg config.DatabaseConfig, maxRetries int, delay time.Duration) (*sqlx.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err := NewDB(cfg)
		if err == nil {
			log.Info().Int("attempt", attempt).Msg("database is ready")
			return db, nil
		}
		lastErr = err
		log.Warn().
			Int("attempt", attempt).
			Int("max_retries", maxRetries).
			Err(err).
			Msg("waiting for database")
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not available after %d attempts: %w", maxRetries, lastErr)
}

// InitSchema creates the prescriptions table if it does not exist. The
// service owns no migrations beyond this initial create.
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS prescriptions (
			prescription_id BIGSERIAL PRIMARY KEY,
			appointment_id  VARCHAR(50)  NOT NULL,
			patient_id      BIGINT       NOT NULL,
			doctor_id       BIGINT       NOT NULL,
			medication      VARCHAR(255) NOT NULL,
			dosage          VARCHAR(50)  NOT NULL,
			days            INTEGER      NOT NULL,
			issued_at       TIMESTAMP    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_prescriptions_appointment_id ON prescriptions (appointment_id);
		CREATE INDEX IF NOT EXISTS idx_prescriptions_patient_id ON prescriptions (patient_id);
		CREATE INDEX IF NOT EXISTS idx_prescriptions_doctor_id ON prescriptions (doctor_id);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
