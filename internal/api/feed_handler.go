package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-api/internal/service"
	"github.com/rs/zerolog"
)

// FeedHandler serves the RSS feed, the sitemap and the CV download
type FeedHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(services *service.Services, log zerolog.Logger) *FeedHandler {
	return &FeedHandler{
		services: services,
		log:      log.With().Str("handler", "feed").Logger(),
	}
}

// RSS handles GET /feed
func (h *FeedHandler) RSS(c *gin.Context) {
	data, err := h.services.Feed.RSS(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=UTF-8", data)
}

// Sitemap handles GET /sitemap.xml
func (h *FeedHandler) Sitemap(c *gin.Context) {
	data, err := h.services.Feed.Sitemap(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=UTF-8", data)
}

// DownloadCV handles GET /cv/download
func (h *FeedHandler) DownloadCV(c *gin.Context) {
	cv, file, err := h.services.CV.Download(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer file.Close()

	c.Header("Content-Type", cv.MimeType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cv.FileName))
	if info, err := file.Stat(); err == nil {
		c.Header("Content-Length", strconv.FormatInt(info.Size(), 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		h.log.Warn().Err(err).Str("cv_id", cv.ID).Msg("CV download interrupted")
	}
}
