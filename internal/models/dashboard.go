package models

import (
	"time"
)

// Dashboard is the admin analytics payload
type Dashboard struct {
	Counts             DashboardCounts  `json:"counts"`
	Views              ViewStats        `json:"views"`
	PopularArticles    []*Article       `json:"popular_articles"`
	RecentArticles     []*Article       `json:"recent_articles"`
	ViewsByCategory    []CategoryViews  `json:"views_by_category"`
	SeriesStats        []SeriesStat     `json:"series_stats"`
	RecentActivity     []RecentActivity `json:"recent_activity"`
	PublishedThisMonth int              `json:"published_this_month"`
}

// DashboardCounts holds entity totals
type DashboardCounts struct {
	Projects          int `json:"projects"`
	Skills            int `json:"skills"`
	Experiences       int `json:"experiences"`
	Testimonials      int `json:"testimonials"`
	Articles          int `json:"articles"`
	PublishedArticles int `json:"published_articles"`
	DraftArticles     int `json:"draft_articles"`
	ScheduledArticles int `json:"scheduled_articles"`
	FeaturedArticles  int `json:"featured_articles"`
	Messages          int `json:"messages"`
	UnreadMessages    int `json:"unread_messages"`
	ActiveSubscribers int `json:"active_subscribers"`
	Comments          int `json:"comments"`
	PendingComments   int `json:"pending_comments"`
}

// ArticleCounts is the per-status breakdown of articles
type ArticleCounts struct {
	Total     int
	Published int
	Draft     int
	Scheduled int
	Featured  int
	ThisMonth int
}

// ViewStats summarizes article views
type ViewStats struct {
	Total   int64   `json:"total"`
	Average float64 `json:"average"`
}

// CategoryViews is the view total of a category
type CategoryViews struct {
	Category string `json:"category"`
	Views    int64  `json:"views"`
	Articles int    `json:"articles"`
}

// SeriesStat summarizes one article series
type SeriesStat struct {
	Series   string `json:"series"`
	Articles int    `json:"articles"`
	Views    int64  `json:"views"`
}

// RecentActivity is one entry in the dashboard activity feed
type RecentActivity struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
