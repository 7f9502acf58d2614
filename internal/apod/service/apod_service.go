package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/skywatch/apod-gateway/internal/apod/cache"
	"github.com/skywatch/apod-gateway/internal/apod/domain"
	"github.com/skywatch/apod-gateway/internal/apod/metrics"
	"github.com/skywatch/apod-gateway/internal/apod/repository"
	"github.com/skywatch/apod-gateway/internal/apod/upstream"
)

// todayKey is the cache key used when no explicit date is requested.
const todayKey = "today"

// ErrArchiveDisabled is returned by ListArchive when no archive
// repository was configured.
var ErrArchiveDisabled = errors.New("picture archive is not enabled")

// APODService fetches, normalizes and caches the picture of the day.
// Concurrent misses for the same key are coalesced into a single
// upstream call.
type APODService struct {
	client    upstream.Client
	cache     cache.Cache
	archive   repository.Repository // nil when the archive is disabled
	publisher domain.EventPublisher // nil when events are disabled
	logger    *zap.Logger
	metrics   metrics.Metrics
	group     singleflight.Group
	cacheTTL  time.Duration
}

type Config struct {
	CacheTTL time.Duration
}

func NewAPODService(
	client upstream.Client,
	cacheLayer cache.Cache,
	archive repository.Repository,
	publisher domain.EventPublisher,
	logger *zap.Logger,
	metricsCollector metrics.Metrics,
	config Config,
) *APODService {
	return &APODService{
		client:    client,
		cache:     cacheLayer,
		archive:   archive,
		publisher: publisher,
		logger:    logger,
		metrics:   metricsCollector,
		cacheTTL:  config.CacheTTL,
	}
}

// GetPicture returns the normalized picture for the given date, or for
// the current day when date is empty. A fresh cache entry is served
// without touching upstream.
func (s *APODService) GetPicture(ctx context.Context, date string) (
	*domain.Picture, error) {

	key := todayKey
	if date != "" {
		key = date
	}

	picture, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Cache get failed",
			zap.Error(err), zap.String("key", key))
	}
	if picture != nil {
		s.metrics.IncrementCounter("cache_hits")
		return picture, nil
	}
	s.metrics.IncrementCounter("cache_misses")

	// The flight is shared by every coalesced caller, so it must not be
	// tied to the initiating request's context: if the first client
	// disconnects, the remaining callers still need the result.
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.fetchAndStore(context.WithoutCancel(ctx), key, date)
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.Picture), nil
}

func (s *APODService) fetchAndStore(ctx context.Context, key, date string) (
	*domain.Picture, error) {

	s.metrics.IncrementCounter("upstream_requests")

	start := time.Now()
	picture, err := s.client.Fetch(ctx, date)
	s.metrics.RecordDuration("upstream_fetch", time.Since(start))

	if err != nil {
		s.metrics.IncrementCounter("upstream_errors")
		return nil, err
	}

	// Cache, archive and event failures must not fail the request.
	if err := s.cache.Set(ctx, key, picture, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache picture",
			zap.Error(err), zap.String("key", key))
	}

	if s.archive != nil {
		if err := s.archive.Save(ctx, picture); err != nil {
			s.logger.Warn("Failed to archive picture",
				zap.Error(err), zap.String("date", picture.Date))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPictureFetched(ctx, picture); err != nil {
			s.logger.Error("Failed to publish picture fetched event",
				zap.Error(err), zap.String("date", picture.Date))
		}
	}

	return picture, nil
}

// ListArchive returns previously fetched pictures, newest first.
func (s *APODService) ListArchive(ctx context.Context, limit, offset int) (
	[]*domain.Picture, error) {

	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}

	return s.archive.List(ctx, limit, offset)
}
