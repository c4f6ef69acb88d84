package service_test

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/portfolio-api/internal/models"
)

func TestFeedService_RSS(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "hello-world", func(a *models.Article) {
		a.Title = "Hello & welcome"
		a.Excerpt = "First post"
	})
	f.addArticle(t, otherID, "draft", func(a *models.Article) { a.PublishedAt = nil })

	data, err := f.svc.Feed.RSS(clientCtx())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var feed struct {
		Channel struct {
			Title string `xml:"title"`
			Items []struct {
				Title   string `xml:"title"`
				Link    string `xml:"link"`
				GUID    string `xml:"guid"`
				PubDate string `xml:"pubDate"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal(data, &feed); err != nil {
		t.Fatalf("Expected valid XML, got %v", err)
	}
	if feed.Channel.Title != "Test Portfolio" {
		t.Errorf("Expected channel title, got %q", feed.Channel.Title)
	}
	if len(feed.Channel.Items) != 1 {
		t.Fatalf("Expected only the published article, got %d items", len(feed.Channel.Items))
	}
	item := feed.Channel.Items[0]
	if item.Title != "Hello & welcome" {
		t.Errorf("Expected escaped title to round-trip, got %q", item.Title)
	}
	if item.Link != "https://example.com/articles/hello-world" || item.GUID != item.Link {
		t.Errorf("Unexpected link %q guid %q", item.Link, item.GUID)
	}
	if _, err := time.Parse(time.RFC1123Z, item.PubDate); err != nil {
		t.Errorf("Expected RFC1123Z pubDate, got %q", item.PubDate)
	}
}

func TestFeedService_RSSIsCached(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "hello-world", nil)

	first, err := f.svc.Feed.RSS(clientCtx())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	f.addArticle(t, otherID, "second", nil)
	second, err := f.svc.Feed.RSS(clientCtx())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("Expected the cached feed to be served")
	}
}

func TestFeedService_Sitemap(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "hello-world", nil)
	f.repos.Project.Projects["p1"] = &models.Project{ID: "p1", Title: "CLI", Tags: models.StringList{}, UpdatedAt: f.clock.Now()}
	f.repos.Project.Projects["p2"] = &models.Project{ID: "p2", Title: "Old", IsArchived: true, Tags: models.StringList{}}

	var buf bytes.Buffer
	if err := f.svc.Feed.WriteSitemap(clientCtx(), &buf); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.HasPrefix(buf.String(), "<?xml") {
		t.Error("Expected an XML declaration")
	}

	var set struct {
		URLs []struct {
			Loc      string `xml:"loc"`
			Priority string `xml:"priority"`
		} `xml:"url"`
	}
	if err := xml.Unmarshal(buf.Bytes(), &set); err != nil {
		t.Fatalf("Expected valid XML, got %v", err)
	}

	want := map[string]string{
		"https://example.com/":                     "1.0",
		"https://example.com/articles":             "0.9",
		"https://example.com/archive":              "0.7",
		"https://example.com/projects/p1":          "0.6",
		"https://example.com/articles/hello-world": "0.8",
	}
	if len(set.URLs) != len(want) {
		t.Fatalf("Expected %d URLs, got %d", len(want), len(set.URLs))
	}
	for _, u := range set.URLs {
		if p, ok := want[u.Loc]; !ok || p != u.Priority {
			t.Errorf("Unexpected entry %s (priority %s)", u.Loc, u.Priority)
		}
	}
}
