package models

import (
	"time"
)

// ArticleStatus is derived from published_at
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusScheduled ArticleStatus = "scheduled"
	ArticleStatusPublished ArticleStatus = "published"
)

// ValidArticleStatuses defines allowed status filters
var ValidArticleStatuses = map[string]bool{
	string(ArticleStatusDraft):     true,
	string(ArticleStatusScheduled): true,
	string(ArticleStatusPublished): true,
}

// Article is a blog post
type Article struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featured_image,omitempty"`
	Category      string     `json:"category,omitempty"`
	Series        string     `json:"series,omitempty"`
	SeriesOrder   *int       `json:"series_order,omitempty"`
	Tags          StringList `json:"tags"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	Views         int64      `json:"views"`
	IsFeatured    bool       `json:"is_featured"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Derived, filled in by the service layer
	Status          ArticleStatus `json:"status"`
	ReadingTime     int           `json:"reading_time"`
	MetaDescription string        `json:"meta_description,omitempty"`
	CommentsCount   int           `json:"comments_count"`
}

// StatusAt returns the article status relative to now
func (a *Article) StatusAt(now time.Time) ArticleStatus {
	switch {
	case a.PublishedAt == nil:
		return ArticleStatusDraft
	case a.PublishedAt.After(now):
		return ArticleStatusScheduled
	default:
		return ArticleStatusPublished
	}
}

// IsPublished reports whether the article is visible at now
func (a *Article) IsPublished(now time.Time) bool {
	return a.StatusAt(now) == ArticleStatusPublished
}

// ArticleInput is the admin create/update payload
type ArticleInput struct {
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featured_image"`
	Category      string     `json:"category"`
	Series        string     `json:"series"`
	SeriesOrder   *int       `json:"series_order"`
	Tags          []string   `json:"tags"`
	PublishedAt   *time.Time `json:"published_at"`
	IsFeatured    bool       `json:"is_featured"`
}

// ArticleFilter narrows article listings
type ArticleFilter struct {
	PublishedOnly bool
	Category      string
	Tag           string
	Status        ArticleStatus
	Search        string
	Now           time.Time
}

// ArticleDetail is the public article page payload
type ArticleDetail struct {
	Article  *Article         `json:"article"`
	Related  []*Article       `json:"related"`
	Popular  []*Article       `json:"popular"`
	Series   []*Article       `json:"series"`
	Comments []*CommentThread `json:"comments"`
}

// CategoryCount is a category with its published article count
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// TagCount is a tag with its published article count
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// BulkDeleteRequest is the admin bulk delete payload
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}
