package db

import (
	"context"
	"fmt"

	"github.com/forgeworks/vertivid/internal/models"
)

// InsertGeneration records one finished (or failed) job for audit purposes.
func (db *DB) InsertGeneration(ctx context.Context, gen *models.Generation) error {
	query := `
		INSERT INTO video_generations (image_url, audio_url, status, file_size)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	return db.QueryRowContext(
		ctx, query,
		gen.ImageURL, gen.AudioURL, gen.Status, gen.FileSize,
	).Scan(&gen.ID, &gen.CreatedAt)
}

// ListGenerations returns the most recent audit records, newest first.
func (db *DB) ListGenerations(ctx context.Context, limit int) ([]models.Generation, error) {
	query := `
		SELECT id, image_url, audio_url, status, file_size, created_at
		FROM video_generations
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query generations: %w", err)
	}
	defer rows.Close()

	var generations []models.Generation
	for rows.Next() {
		var gen models.Generation
		err := rows.Scan(
			&gen.ID, &gen.ImageURL, &gen.AudioURL, &gen.Status,
			&gen.FileSize, &gen.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		generations = append(generations, gen)
	}

	return generations, rows.Err()
}
