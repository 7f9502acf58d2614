package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywatch/apod-gateway/internal/apod/domain"
)

func testPicture(date string) *domain.Picture {
	return &domain.Picture{
		Date:        date,
		Title:       "Test Picture",
		Explanation: "A test picture.",
		MediaType:   domain.MediaTypeImage,
		Source:      domain.SourceNASAAPOD,
		URL:         "https://example.com/pic.jpg",
		HDURL:       "https://example.com/pic_hd.jpg",
	}
}

func TestMemoryCacheMissReturnsNil(t *testing.T) {
	c := NewMemoryCache(nil)

	picture, err := c.Get(context.Background(), "today")
	require.NoError(t, err)
	assert.Nil(t, picture)
}

func TestMemoryCacheServesFreshEntry(t *testing.T) {
	current := time.Date(2024, 7, 14, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(func() time.Time { return current })

	want := testPicture("2024-07-14")
	require.NoError(t, c.Set(context.Background(), "today", want, time.Hour))

	current = current.Add(59 * time.Minute)

	got, err := c.Get(context.Background(), "today")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMemoryCacheExpiresAfterTTL(t *testing.T) {
	current := time.Date(2024, 7, 14, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(func() time.Time { return current })

	require.NoError(t, c.Set(context.Background(), "today",
		testPicture("2024-07-14"), time.Hour))

	current = current.Add(time.Hour)

	got, err := c.Get(context.Background(), "today")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCacheOverwritesEntry(t *testing.T) {
	current := time.Date(2024, 7, 14, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(func() time.Time { return current })

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "2024-07-14", testPicture("2024-07-14"), time.Hour))

	updated := testPicture("2024-07-14")
	updated.Title = "Updated Title"
	require.NoError(t, c.Set(ctx, "2024-07-14", updated, time.Hour))

	got, err := c.Get(ctx, "2024-07-14")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Updated Title", got.Title)
}

func TestMemoryCacheKeysAreIndependent(t *testing.T) {
	c := NewMemoryCache(nil)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "2024-07-14", testPicture("2024-07-14"), time.Hour))

	got, err := c.Get(ctx, "2024-07-15")
	require.NoError(t, err)
	assert.Nil(t, got)
}
