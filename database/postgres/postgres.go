package postgres

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const schema = `
	CREATE TABLE IF NOT EXISTS finance_records (
		id          VARCHAR(26) PRIMARY KEY,
		user_id     VARCHAR(64) NOT NULL,
		title       TEXT NOT NULL,
		amount      NUMERIC(20, 4) NOT NULL CHECK (amount >= 0),
		type        VARCHAR(16) NOT NULL,
		category    VARCHAR(32),
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_finance_records_user_created
		ON finance_records (user_id, created_at DESC);

	CREATE INDEX IF NOT EXISTS idx_finance_records_user_category
		ON finance_records (user_id, category);
`

func New() (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", FormatDSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(envInt("DB_MAX_OPEN_CONNS", 25))
	db.SetMaxIdleConns(envInt("DB_MAX_IDLE_CONNS", 5))
	db.SetConnMaxLifetime(time.Duration(envInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute)

	logrus.WithFields(logrus.Fields{
		"host": os.Getenv("DB_HOST"),
		"name": os.Getenv("DB_NAME"),
	}).Info("Connected to postgres")

	return db, nil
}

// Migrate creates the finance_records table and its indexes when missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func FormatDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		envString("DB_HOST", "localhost"),
		envString("DB_PORT", "5432"),
		envString("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		envString("DB_NAME", "finance"),
		envString("DB_SSLMODE", "disable"),
	)
}

func envString(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
