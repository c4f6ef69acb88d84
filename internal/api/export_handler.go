package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/service"
	"github.com/rs/zerolog"
)

var exportContentTypes = map[string]string{
	service.FormatCSV:    "text/csv; charset=UTF-8",
	service.FormatNDJSON: "application/x-ndjson",
	service.FormatJSON:   "application/json",
}

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// exportFormat reads ?format, defaulting to CSV, and sets the download headers
func (h *ExportHandler) exportFormat(c *gin.Context, name string) (string, bool) {
	format := c.DefaultQuery("format", service.FormatCSV)
	if !service.ValidExportFormat(format) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "format must be one of: csv, ndjson, json"})
		return "", false
	}
	ext := format
	if format == service.FormatNDJSON {
		ext = "jsonl"
	}
	filename := fmt.Sprintf("%s-%s.%s", name, time.Now().Format("2006-01-02"), ext)
	c.Header("Content-Type", exportContentTypes[format])
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return format, true
}

// Articles handles GET /admin/articles/export?format=
// Streams the export directly to the response
func (h *ExportHandler) Articles(c *gin.Context) {
	format, ok := h.exportFormat(c, "articles")
	if !ok {
		return
	}
	c.Status(http.StatusOK)
	if err := h.services.Export.StreamArticles(c.Request.Context(), c.Writer, format); err != nil {
		// Can't return error JSON after streaming has started
		h.log.Error().Err(err).Msg("Articles export failed")
	}
}

// Subscribers handles GET /admin/newsletter/export?format=&status=&search=
func (h *ExportHandler) Subscribers(c *gin.Context) {
	format, ok := h.exportFormat(c, "newsletter-subscribers")
	if !ok {
		return
	}
	filter := models.SubscriberFilter{Status: c.Query("status"), Search: c.Query("search")}
	c.Status(http.StatusOK)
	if err := h.services.Export.StreamSubscribers(c.Request.Context(), c.Writer, filter, format); err != nil {
		h.log.Error().Err(err).Msg("Subscribers export failed")
	}
}
