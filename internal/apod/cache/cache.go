package cache

import (
	"context"
	"time"

	"github.com/skywatch/apod-gateway/internal/apod/domain"
)

// Cache stores normalized pictures keyed by their requested date (or the
// "today" sentinel). Get returns (nil, nil) on a miss or a stale entry.
type Cache interface {
	Get(ctx context.Context, key string) (*domain.Picture, error)
	Set(ctx context.Context, key string, picture *domain.Picture, ttl time.Duration) error
}
