package service_test

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/service"
)

func TestExportService_ArticlesCSV(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "hello-world", func(a *models.Article) { a.Title = "Hello, world"; a.Views = 7 })
	future := f.clock.Now().Add(time.Hour)
	f.addArticle(t, otherID, "later", func(a *models.Article) { a.PublishedAt = &future })

	rec := httptest.NewRecorder()
	if err := f.svc.Export.StreamArticles(clientCtx(), rec, service.FormatCSV); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("Expected valid CSV, got %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "ID,Title,Slug,Category,Status,Views,Published At,Created At" {
		t.Errorf("Unexpected header %v", rows[0])
	}

	byID := map[string][]string{}
	for _, row := range rows[1:] {
		byID[row[0]] = row
	}
	if row := byID[articleID]; row[1] != "Hello, world" || row[4] != "published" || row[5] != "7" {
		t.Errorf("Unexpected row %v", row)
	}
	if row := byID[otherID]; row[4] != "scheduled" {
		t.Errorf("Expected scheduled status, got %v", row)
	}
	if !rec.Flushed {
		t.Error("Expected the response to be flushed")
	}
}

func TestExportService_SubscribersNDJSON(t *testing.T) {
	f := newFixture(t)
	f.repos.Subscriber.Subscribers["a"] = &models.Subscriber{ID: "a", Email: "a@example.com", IsActive: true, SubscribedAt: f.clock.Now()}
	f.repos.Subscriber.Subscribers["b"] = &models.Subscriber{ID: "b", Email: "b@example.com", SubscribedAt: f.clock.Now()}

	var buf bytes.Buffer
	if err := f.svc.Export.StreamSubscribers(clientCtx(), &buf, models.SubscriberFilter{Status: "active"}, service.FormatNDJSON); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var lines int
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var sub models.Subscriber
		if err := json.Unmarshal(scanner.Bytes(), &sub); err != nil {
			t.Fatalf("Expected a JSON line, got %v", err)
		}
		if sub.Email != "a@example.com" {
			t.Errorf("Expected only the active subscriber, got %s", sub.Email)
		}
		lines++
	}
	if lines != 1 {
		t.Errorf("Expected 1 line, got %d", lines)
	}
}

func TestExportService_JSONArray(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	if err := f.svc.Export.StreamArticles(clientCtx(), &buf, service.FormatJSON); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if buf.String() != "[]" {
		t.Errorf("Expected an empty array, got %q", buf.String())
	}

	f.addArticle(t, articleID, "one", nil)
	f.addArticle(t, otherID, "two", nil)
	buf.Reset()
	if err := f.svc.Export.StreamArticles(clientCtx(), &buf, service.FormatJSON); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var articles []models.Article
	if err := json.Unmarshal(buf.Bytes(), &articles); err != nil {
		t.Fatalf("Expected a JSON array, got %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("Expected 2 articles, got %d", len(articles))
	}
}

func TestExportService_UnknownFormat(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer

	err := f.svc.Export.StreamArticles(clientCtx(), &buf, "xlsx")
	var verr *service.ValidationErrors
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected nothing written, got %q", buf.String())
	}
}
