package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

func New(databaseURL string) (*DB, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	database.SetMaxOpenConns(10)
	database.SetMaxIdleConns(5)
	database.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: database}, nil
}

// Migrate creates the video_generations table if it doesn't exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS video_generations (
			id BIGSERIAL PRIMARY KEY,
			image_url VARCHAR(500) NOT NULL,
			audio_url VARCHAR(500) NOT NULL,
			status VARCHAR(50) NOT NULL,
			file_size BIGINT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to migrate video_generations: %w", err)
	}
	return nil
}
