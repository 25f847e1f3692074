// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"underwriting-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// schemaStatements create the tables the decision recorder writes to.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS underwriting_decisions (
		decision_id      UUID PRIMARY KEY,
		submission_hash  TEXT NOT NULL,
		decision         TEXT NOT NULL,
		source           TEXT NOT NULL,
		violated_rule    TEXT,
		applicant_name   TEXT NOT NULL,
		naics            CHAR(6) NOT NULL,
		state            TEXT NOT NULL,
		broker_name      TEXT,
		broker_org       TEXT,
		model_version    TEXT,
		evaluated_at     TIMESTAMPTZ NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_underwriting_decisions_hash ON underwriting_decisions (submission_hash)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id             BIGSERIAL PRIMARY KEY,
		event_type     TEXT NOT NULL,
		resource_type  TEXT NOT NULL,
		resource_id    TEXT NOT NULL,
		details        JSONB,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema creates missing tables in one transaction.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// GetDB returns the underlying *sql.DB for compatibility
func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}
