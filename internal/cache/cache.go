// Package cache memoizes computed values under string keys with a TTL.
package cache

import (
	"context"
	"time"
)

// Keys used across the application
const (
	KeyHomeProjects      = "home.projects"
	KeyHomeSkills        = "home.skills"
	KeyHomeExperiences   = "home.experiences"
	KeyHomeTestimonials  = "home.testimonials"
	KeyPopularArticles   = "articles.popular"
	KeyArticleCategories = "articles.categories"
	KeyArticleTags       = "articles.tags"
	KeyFeed              = "feed.rss"
	KeySitemap           = "sitemap.xml"
)

// ArticleKeys are derived from article data and are forgotten on any article write
var ArticleKeys = []string{KeyPopularArticles, KeyArticleCategories, KeyArticleTags, KeyFeed, KeySitemap}

// Cache stores JSON-encodable values
type Cache interface {
	// Get decodes the value at key into dest and reports whether it was found
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Remember returns the cached value at key, computing and storing it with fn
// on a miss. Cache read and write failures fall through to fn.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var cached T
	if found, err := c.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	value, err := fn(ctx)
	if err != nil {
		return value, err
	}
	_ = c.Set(ctx, key, value, ttl)
	return value, nil
}
