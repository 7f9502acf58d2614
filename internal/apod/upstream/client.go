package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/skywatch/apod-gateway/internal/apod/domain"
)

const apodPath = "/planetary/apod"

// Client fetches and normalizes the picture of the day. An empty date
// requests the current day's picture.
type Client interface {
	Fetch(ctx context.Context, date string) (*domain.Picture, error)
}

type NASAClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewNASAClient(baseURL, apiKey string, timeout time.Duration) *NASAClient {
	return &NASAClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

func (c *NASAClient) Fetch(ctx context.Context, date string) (
	*domain.Picture, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.requestURL(date), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{
			Message: fmt.Sprintf("request failed: %v", err),
		}
	}
	defer resp.Body.Close()

	// The body is read regardless of status so error responses can be
	// inspected for the upstream's own message.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{
			Message: fmt.Sprintf("failed to read response body: %v", err),
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &domain.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, body),
		}
	}

	var payload apodPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.UpstreamError{
			Message: fmt.Sprintf("failed to decode response body: %v", err),
		}
	}

	return normalize(&payload), nil
}

func (c *NASAClient) requestURL(date string) string {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	if date != "" {
		q.Set("date", date)
	}

	return fmt.Sprintf("%s%s?%s", c.baseURL, apodPath, q.Encode())
}

// apodPayload is the raw upstream response shape.
type apodPayload struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	MediaType   string `json:"media_type"`
	URL         string `json:"url"`
	HDURL       string `json:"hdurl"`
	Copyright   string `json:"copyright"`
}

func normalize(payload *apodPayload) *domain.Picture {
	mediaType := payload.MediaType
	if mediaType == "" {
		mediaType = domain.MediaTypeImage
	}

	picture := &domain.Picture{
		Date:        payload.Date,
		Title:       payload.Title,
		Explanation: payload.Explanation,
		MediaType:   mediaType,
		Source:      domain.SourceNASAAPOD,
	}

	if c := strings.TrimSpace(payload.Copyright); c != "" {
		picture.Copyright = &c
	}

	if mediaType != domain.MediaTypeImage {
		picture.MediaURL = payload.URL
		return picture
	}

	picture.URL = payload.URL
	picture.HDURL = payload.HDURL
	if isAnimatedImage(payload.HDURL) {
		// The HD field must never point at an animated asset.
		picture.GifURL = payload.HDURL
		picture.HDURL = payload.URL
	}
	if picture.HDURL == "" {
		picture.HDURL = payload.URL
	}

	return picture
}

func isAnimatedImage(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	ext := strings.ToLower(path.Ext(u.Path))
	return ext == ".gif" || ext == ".apng"
}

// upstreamErrorBody covers both error shapes the APOD API is known to
// return: {"code": 400, "msg": "..."} and {"error": {"message": "..."}}.
type upstreamErrorBody struct {
	Msg   string `json:"msg"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func errorMessage(status int, body []byte) string {
	var parsed upstreamErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Msg != "" {
			return parsed.Msg
		}
		if parsed.Error != nil && parsed.Error.Message != "" {
			return parsed.Error.Message
		}
	}

	return fmt.Sprintf("unexpected status %d", status)
}

var _ Client = (*NASAClient)(nil)
