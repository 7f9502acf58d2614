package repository

import (
	"context"

	"github.com/skywatch/apod-gateway/internal/apod/domain"
)

// Repository archives every picture fetched from upstream, keyed by date.
type Repository interface {
	Save(ctx context.Context, picture *domain.Picture) error
	List(ctx context.Context, limit, offset int) ([]*domain.Picture, error)
}
