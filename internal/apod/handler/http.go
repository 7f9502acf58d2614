package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skywatch/apod-gateway/internal/apod/domain"
	"github.com/skywatch/apod-gateway/internal/apod/service"
	"github.com/skywatch/apod-gateway/pkg/validator"
)

// maxArchiveLimit caps archive page sizes; out-of-range or unparseable
// pagination falls back to the defaults instead of reaching the database.
const maxArchiveLimit = 100

type HTTPHandler struct {
	service       *service.APODService
	dateValidator validator.DateValidator
	logger        *zap.Logger
}

func NewHTTPHandler(service *service.APODService,
	dateValidator validator.DateValidator, logger *zap.Logger) *HTTPHandler {

	return &HTTPHandler{
		service:       service,
		dateValidator: dateValidator,
		logger:        logger,
	}
}

func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	space := router.Group("/space/apod")
	{
		space.GET("/today", h.GetToday)
		space.GET("/date", h.GetByDate)
		space.GET("/archive", h.GetArchive)
	}

	// Liveness probe: always 200, independent of upstream state.
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func (h *HTTPHandler) GetToday(c *gin.Context) {
	picture, err := h.service.GetPicture(c.Request.Context(), "")
	if err != nil {
		h.writeUpstreamError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, picture)
}

func (h *HTTPHandler) GetByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing required query parameter: date",
		})
		return
	}

	if err := h.dateValidator.Validate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	picture, err := h.service.GetPicture(c.Request.Context(), date)
	if err != nil {
		h.writeUpstreamError(c, err, date)
		return
	}

	c.JSON(http.StatusOK, picture)
}

func (h *HTTPHandler) GetArchive(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > maxArchiveLimit {
		limit = 20
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	pictures, err := h.service.ListArchive(c.Request.Context(), limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrArchiveDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}

		h.logger.Error("Failed to list archive", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pictures": pictures,
		"limit":    limit,
		"offset":   offset,
	})
}

// writeUpstreamError maps an upstream failure to a gateway response: a
// 400 from upstream (bad or out-of-range date) passes through as 400
// with the upstream's message, everything else becomes a 502.
func (h *HTTPHandler) writeUpstreamError(c *gin.Context, err error, date string) {
	var upstreamErr *domain.UpstreamError
	if errors.As(err, &upstreamErr) &&
		upstreamErr.StatusCode == http.StatusBadRequest {

		c.JSON(http.StatusBadRequest, gin.H{"error": upstreamErr.Message})
		return
	}

	h.logger.Error("Upstream fetch failed",
		zap.Error(err), zap.String("date", date))
	c.JSON(http.StatusBadGateway, gin.H{
		"error": "upstream APOD service unavailable",
	})
}
