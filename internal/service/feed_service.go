package service

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/portfolio-api/internal/cache"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/htmltext"
	"github.com/portfolio-api/internal/repository"
	"github.com/rs/zerolog"
)

const (
	feedTTL      = 12 * time.Hour
	feedItems    = 20
	sitemapXMLNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	GUID        rssGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate"`
	Description string  `xml:"description"`
	Category    string  `xml:"category,omitempty"`
	Author      string  `xml:"author,omitempty"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// feedService is the concrete implementation of FeedService
type feedService struct {
	articles repository.ArticleRepository
	projects repository.ProjectRepository
	cache    cache.Cache
	site     config.SiteConfig
	now      func() time.Time
	log      zerolog.Logger
}

func newFeedService(repos *repository.Repositories, deps Dependencies, site config.SiteConfig, log zerolog.Logger) *feedService {
	return &feedService{
		articles: repos.Article,
		projects: repos.Project,
		cache:    deps.Cache,
		site:     site,
		now:      deps.Now,
		log:      log.With().Str("service", "feed").Logger(),
	}
}

func (s *feedService) url(path string) string {
	return strings.TrimRight(s.site.BaseURL, "/") + path
}

// RSS renders the cached RSS 2.0 feed of the latest published articles
func (s *feedService) RSS(ctx context.Context) ([]byte, error) {
	return cache.Remember(ctx, s.cache, cache.KeyFeed, feedTTL, s.renderRSS)
}

func (s *feedService) renderRSS(ctx context.Context) ([]byte, error) {
	now := s.now()
	articles, err := s.articles.Published(ctx, now, feedItems)
	if err != nil {
		return nil, fmt.Errorf("feed articles: %w", err)
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:         s.site.Title,
			Link:          s.url("/"),
			Description:   s.site.Description,
			Language:      s.site.Language,
			LastBuildDate: now.UTC().Format(time.RFC1123Z),
			Items:         make([]rssItem, 0, len(articles)),
		},
	}
	for _, a := range articles {
		link := s.url("/articles/" + a.Slug)
		item := rssItem{
			Title:       a.Title,
			Link:        link,
			GUID:        rssGUID{IsPermaLink: true, Value: link},
			Description: htmltext.MetaDescription(a.Excerpt, a.Content),
			Category:    a.Category,
			Author:      s.site.Author,
		}
		if a.PublishedAt != nil {
			item.PubDate = a.PublishedAt.UTC().Format(time.RFC1123Z)
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	var buf bytes.Buffer
	if err := encodeXML(&buf, feed); err != nil {
		return nil, fmt.Errorf("encode feed: %w", err)
	}
	s.log.Debug().Int("items", len(articles)).Msg("Feed rendered")
	return buf.Bytes(), nil
}

// Sitemap renders the cached sitemap
func (s *feedService) Sitemap(ctx context.Context) ([]byte, error) {
	return cache.Remember(ctx, s.cache, cache.KeySitemap, feedTTL, func(ctx context.Context) ([]byte, error) {
		var buf bytes.Buffer
		if err := s.WriteSitemap(ctx, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

// WriteSitemap renders the sitemap straight from the database
func (s *feedService) WriteSitemap(ctx context.Context, w io.Writer) error {
	set := urlSet{
		XMLNS: sitemapXMLNS,
		URLs: []sitemapURL{
			{Loc: s.url("/"), ChangeFreq: "daily", Priority: "1.0"},
			{Loc: s.url("/articles"), ChangeFreq: "daily", Priority: "0.9"},
			{Loc: s.url("/archive"), ChangeFreq: "weekly", Priority: "0.7"},
		},
	}

	archived := false
	projects, err := s.projects.List(ctx, &archived)
	if err != nil {
		return fmt.Errorf("sitemap projects: %w", err)
	}
	for _, p := range projects {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        s.url("/projects/" + p.ID),
			LastMod:    p.UpdatedAt.UTC().Format(time.RFC3339),
			ChangeFreq: "monthly",
			Priority:   "0.6",
		})
	}

	articles, err := s.articles.Published(ctx, s.now(), 0)
	if err != nil {
		return fmt.Errorf("sitemap articles: %w", err)
	}
	for _, a := range articles {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        s.url("/articles/" + a.Slug),
			LastMod:    a.UpdatedAt.UTC().Format(time.RFC3339),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	if err := encodeXML(w, set); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	return nil
}

func encodeXML(w io.Writer, v interface{}) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
