package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywatch/apod-gateway/internal/apod/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *NASAClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewNASAClient(server.URL, "test-key", time.Second)
}

func respond(t *testing.T, body string) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestFetchNormalizesImage(t *testing.T) {
	client := newTestClient(t, respond(t, `{
		"date": "2020-07-14",
		"title": "Comet NEOWISE",
		"explanation": "A comet.",
		"media_type": "image",
		"url": "https://apod.nasa.gov/image/comet.jpg",
		"hdurl": "https://apod.nasa.gov/image/comet_hd.jpg",
		"copyright": "Jane Doe"
	}`))

	picture, err := client.Fetch(context.Background(), "2020-07-14")
	require.NoError(t, err)

	assert.Equal(t, "2020-07-14", picture.Date)
	assert.Equal(t, "Comet NEOWISE", picture.Title)
	assert.Equal(t, "A comet.", picture.Explanation)
	assert.Equal(t, domain.MediaTypeImage, picture.MediaType)
	assert.Equal(t, domain.SourceNASAAPOD, picture.Source)
	assert.Equal(t, "https://apod.nasa.gov/image/comet.jpg", picture.URL)
	assert.Equal(t, "https://apod.nasa.gov/image/comet_hd.jpg", picture.HDURL)
	assert.Empty(t, picture.GifURL)
	assert.Empty(t, picture.MediaURL)
	require.NotNil(t, picture.Copyright)
	assert.Equal(t, "Jane Doe", *picture.Copyright)
}

func TestFetchAnimatedHDURLFallsBack(t *testing.T) {
	client := newTestClient(t, respond(t, `{
		"date": "2020-07-14",
		"title": "Spinning Asteroid",
		"explanation": "An animation.",
		"media_type": "image",
		"url": "https://apod.nasa.gov/image/asteroid.jpg",
		"hdurl": "https://apod.nasa.gov/image/asteroid.gif"
	}`))

	picture, err := client.Fetch(context.Background(), "")
	require.NoError(t, err)

	// The HD field must never carry an animated asset.
	assert.Equal(t, picture.URL, picture.HDURL)
	assert.Equal(t, "https://apod.nasa.gov/image/asteroid.gif", picture.GifURL)
}

func TestFetchMissingHDURLFallsBack(t *testing.T) {
	client := newTestClient(t, respond(t, `{
		"date": "2020-07-14",
		"title": "No HD",
		"explanation": "x",
		"media_type": "image",
		"url": "https://apod.nasa.gov/image/pic.jpg"
	}`))

	picture, err := client.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, picture.URL, picture.HDURL)
}

func TestFetchDefaultsMediaTypeToImage(t *testing.T) {
	client := newTestClient(t, respond(t, `{
		"date": "2020-07-14",
		"title": "Untyped",
		"explanation": "x",
		"url": "https://apod.nasa.gov/image/pic.jpg"
	}`))

	picture, err := client.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.MediaTypeImage, picture.MediaType)
	assert.Equal(t, "https://apod.nasa.gov/image/pic.jpg", picture.URL)
}

func TestFetchVideoUsesMediaURL(t *testing.T) {
	client := newTestClient(t, respond(t, `{
		"date": "2020-07-14",
		"title": "Solar Eclipse",
		"explanation": "A video.",
		"media_type": "video",
		"url": "https://www.youtube.com/embed/abc123"
	}`))

	picture, err := client.Fetch(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, domain.MediaTypeVideo, picture.MediaType)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", picture.MediaURL)
	assert.Empty(t, picture.URL)
	assert.Empty(t, picture.HDURL)
	assert.Empty(t, picture.GifURL)
}

func TestFetchMissingCopyrightStaysNil(t *testing.T) {
	client := newTestClient(t, respond(t, `{
		"date": "2020-07-14",
		"title": "Public Domain",
		"explanation": "x",
		"media_type": "image",
		"url": "https://apod.nasa.gov/image/pic.jpg"
	}`))

	picture, err := client.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, picture.Copyright)
}

func TestFetchSendsAPIKeyAndDate(t *testing.T) {
	var gotPath, gotKey, gotDate string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		gotDate = r.URL.Query().Get("date")
		_, _ = w.Write([]byte(`{"date":"2020-07-14","title":"t","explanation":"e","media_type":"image","url":"u"}`))
	})

	_, err := client.Fetch(context.Background(), "2020-07-14")
	require.NoError(t, err)

	assert.Equal(t, "/planetary/apod", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "2020-07-14", gotDate)
}

func TestFetchOmitsDateWhenEmpty(t *testing.T) {
	var hasDate bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hasDate = r.URL.Query().Has("date")
		_, _ = w.Write([]byte(`{"date":"2020-07-14","title":"t","explanation":"e","media_type":"image","url":"u"}`))
	})

	_, err := client.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, hasDate)
}

func TestFetchBadRequestCarriesUpstreamMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":400,"msg":"Date must be between Jun 16, 1995 and Jul 14, 2020."}`))
	})

	_, err := client.Fetch(context.Background(), "1990-01-01")
	require.Error(t, err)

	var upstreamErr *domain.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusBadRequest, upstreamErr.StatusCode)
	assert.Equal(t, "Date must be between Jun 16, 1995 and Jul 14, 2020.",
		upstreamErr.Message)
}

func TestFetchNestedErrorShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"API_KEY_INVALID","message":"An invalid api_key was supplied."}}`))
	})

	_, err := client.Fetch(context.Background(), "")
	require.Error(t, err)

	var upstreamErr *domain.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusForbidden, upstreamErr.StatusCode)
	assert.Equal(t, "An invalid api_key was supplied.", upstreamErr.Message)
}

func TestFetchServerErrorGenericMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("oops"))
	})

	_, err := client.Fetch(context.Background(), "")
	require.Error(t, err)

	var upstreamErr *domain.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusInternalServerError, upstreamErr.StatusCode)
	assert.Equal(t, "unexpected status 500", upstreamErr.Message)
}

func TestFetchInvalidJSONPayload(t *testing.T) {
	client := newTestClient(t, respond(t, `not json`))

	_, err := client.Fetch(context.Background(), "")
	require.Error(t, err)

	var upstreamErr *domain.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, 0, upstreamErr.StatusCode)
}

func TestFetchNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewNASAClient(server.URL, "test-key", time.Second)

	_, err := client.Fetch(context.Background(), "")
	require.Error(t, err)

	var upstreamErr *domain.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, 0, upstreamErr.StatusCode)
}
