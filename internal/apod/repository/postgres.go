package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/skywatch/apod-gateway/internal/apod/domain"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts on date: a refetch of the same day overwrites the
// archived row rather than duplicating it.
func (r *PostgresRepository) Save(ctx context.Context, picture *domain.Picture) error {
	query := `
        INSERT INTO pictures (date, title, explanation, media_type, copyright,
                              source, url, hd_url, gif_url, media_url, fetched_at)
        VALUES (:date, :title, :explanation, :media_type, :copyright,
                :source, :url, :hd_url, :gif_url, :media_url, NOW())
        ON CONFLICT (date) DO UPDATE
        SET title       = EXCLUDED.title,
            explanation = EXCLUDED.explanation,
            media_type  = EXCLUDED.media_type,
            copyright   = EXCLUDED.copyright,
            source      = EXCLUDED.source,
            url         = EXCLUDED.url,
            hd_url      = EXCLUDED.hd_url,
            gif_url     = EXCLUDED.gif_url,
            media_url   = EXCLUDED.media_url,
            fetched_at  = NOW()`

	if _, err := r.db.NamedExecContext(ctx, query, picture); err != nil {
		return fmt.Errorf("failed to archive picture: %w", err)
	}

	return nil
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) (
	[]*domain.Picture, error) {

	var pictures []*domain.Picture
	query := `
        SELECT date, title, explanation, media_type, copyright,
               source, url, hd_url, gif_url, media_url
        FROM pictures
        ORDER BY date DESC
        LIMIT $1 OFFSET $2`

	err := r.db.SelectContext(ctx, &pictures, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived pictures: %w", err)
	}

	return pictures, nil
}

var _ Repository = (*PostgresRepository)(nil)
