package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
	"github.com/rs/zerolog"
)

// Export formats
const (
	FormatCSV    = "csv"
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
)

const (
	flushEvery = 100
	exportTime = "2006-01-02 15:04:05"
)

var (
	articleExportHeader    = []string{"ID", "Title", "Slug", "Category", "Status", "Views", "Published At", "Created At"}
	subscriberExportHeader = []string{"Email", "Name", "Status", "Subscribed At", "Unsubscribed At"}
)

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	now   func() time.Time
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, now func() time.Time, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		now:   now,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// ValidExportFormat reports whether format can be streamed
func ValidExportFormat(format string) bool {
	switch format {
	case FormatCSV, FormatNDJSON, FormatJSON:
		return true
	}
	return false
}

// recordWriter writes one export format, flushing an http.ResponseWriter
// every flushEvery records
type recordWriter struct {
	w       io.Writer
	format  string
	csv     *csv.Writer
	flusher http.Flusher
	count   int
}

func newRecordWriter(w io.Writer, format string, header []string) (*recordWriter, error) {
	if !ValidExportFormat(format) {
		return nil, invalidField("format", "format must be one of csv, ndjson, json")
	}
	rw := &recordWriter{w: w, format: format}
	rw.flusher, _ = w.(http.Flusher)
	switch format {
	case FormatCSV:
		rw.csv = csv.NewWriter(w)
		if err := rw.csv.Write(header); err != nil {
			return nil, err
		}
	case FormatJSON:
		if _, err := io.WriteString(w, "["); err != nil {
			return nil, err
		}
	}
	return rw, nil
}

func (rw *recordWriter) write(v interface{}, row []string) error {
	var err error
	switch rw.format {
	case FormatCSV:
		err = rw.csv.Write(row)
	default:
		var data []byte
		if data, err = json.Marshal(v); err != nil {
			return err
		}
		if rw.format == FormatJSON && rw.count > 0 {
			if _, err = io.WriteString(rw.w, ","); err != nil {
				return err
			}
		}
		if _, err = rw.w.Write(data); err == nil && rw.format == FormatNDJSON {
			_, err = io.WriteString(rw.w, "\n")
		}
	}
	if err != nil {
		return err
	}

	rw.count++
	if rw.count%flushEvery == 0 {
		rw.flush()
	}
	return nil
}

func (rw *recordWriter) flush() {
	if rw.csv != nil {
		rw.csv.Flush()
	}
	if rw.flusher != nil {
		rw.flusher.Flush()
	}
}

func (rw *recordWriter) close() error {
	if rw.format == FormatJSON {
		if _, err := io.WriteString(rw.w, "]"); err != nil {
			return err
		}
	}
	rw.flush()
	if rw.csv != nil {
		return rw.csv.Error()
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportTime)
}

// StreamArticles streams every article in the requested format
func (s *exportService) StreamArticles(ctx context.Context, w io.Writer, format string) error {
	rw, err := newRecordWriter(w, format, articleExportHeader)
	if err != nil {
		return err
	}
	s.log.Info().Str("format", format).Msg("Starting articles export")

	now := s.now()
	err = s.repos.Article.StreamAll(ctx, func(a *models.Article) error {
		a.Status = a.StatusAt(now)
		return rw.write(a, []string{
			a.ID,
			a.Title,
			a.Slug,
			a.Category,
			string(a.Status),
			strconv.FormatInt(a.Views, 10),
			formatTime(a.PublishedAt),
			formatTime(&a.CreatedAt),
		})
	})
	if err != nil {
		return fmt.Errorf("stream articles: %w", err)
	}
	if err := rw.close(); err != nil {
		return err
	}
	s.log.Info().Int("count", rw.count).Msg("Articles export completed")
	return nil
}

// StreamSubscribers streams subscribers matching filter in the requested format
func (s *exportService) StreamSubscribers(ctx context.Context, w io.Writer, filter models.SubscriberFilter, format string) error {
	rw, err := newRecordWriter(w, format, subscriberExportHeader)
	if err != nil {
		return err
	}
	s.log.Info().Str("format", format).Msg("Starting subscribers export")

	err = s.repos.Subscriber.StreamAll(ctx, filter, func(sub *models.Subscriber) error {
		status := "Inactive"
		if sub.IsActive {
			status = "Active"
		}
		return rw.write(sub, []string{
			sub.Email,
			sub.Name,
			status,
			formatTime(&sub.SubscribedAt),
			formatTime(sub.UnsubscribedAt),
		})
	})
	if err != nil {
		return fmt.Errorf("stream subscribers: %w", err)
	}
	if err := rw.close(); err != nil {
		return err
	}
	s.log.Info().Int("count", rw.count).Msg("Subscribers export completed")
	return nil
}
