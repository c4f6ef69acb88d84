package service_test

import (
	"testing"
	"time"

	"github.com/portfolio-api/internal/models"
)

func TestDashboardService_Counts(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "live", func(a *models.Article) { a.IsFeatured = true; a.Views = 10 })
	future := f.clock.Now().Add(24 * time.Hour)
	f.addArticle(t, otherID, "later", func(a *models.Article) { a.PublishedAt = &future })
	f.addArticle(t, commentID, "draft", func(a *models.Article) { a.PublishedAt = nil })
	f.addComment(t, replyID, articleID, models.CommentStatusPending, nil)
	f.repos.Subscriber.Subscribers["s1"] = &models.Subscriber{ID: "s1", Email: "s1@example.com", IsActive: true, SubscribedAt: f.clock.Now()}
	if err := f.svc.Contact.Submit(clientCtx(), validContact()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	d, err := f.svc.Dashboard.Dashboard(clientCtx())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	c := d.Counts
	checks := []struct {
		name string
		got  int
		want int
	}{
		{"articles", c.Articles, 3},
		{"published", c.PublishedArticles, 1},
		{"draft", c.DraftArticles, 1},
		{"scheduled", c.ScheduledArticles, 1},
		{"featured", c.FeaturedArticles, 1},
		{"comments", c.Comments, 1},
		{"pending comments", c.PendingComments, 1},
		{"messages", c.Messages, 1},
		{"unread messages", c.UnreadMessages, 1},
		{"active subscribers", c.ActiveSubscribers, 1},
		{"published this month", d.PublishedThisMonth, 1},
	}
	for _, check := range checks {
		if check.got != check.want {
			t.Errorf("%s: expected %d, got %d", check.name, check.want, check.got)
		}
	}
	if len(d.PopularArticles) != 1 || d.PopularArticles[0].Slug != "live" {
		t.Errorf("Expected only the published article to be popular, got %d", len(d.PopularArticles))
	}
}

func TestDashboardService_RecentActivity(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "hello", func(a *models.Article) {
		a.Title = "Hello"
		a.CreatedAt = f.clock.Now().Add(-2 * time.Hour)
	})
	f.addComment(t, commentID, articleID, models.CommentStatusApproved, nil)
	f.addComment(t, replyID, "99999999-9999-9999-9999-999999999999", models.CommentStatusApproved, nil)
	f.clock.Advance(time.Minute)
	if err := f.svc.Contact.Submit(clientCtx(), validContact()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	d, err := f.svc.Dashboard.Dashboard(clientCtx())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(d.RecentActivity) != 4 {
		t.Fatalf("Expected 4 activity items, got %d", len(d.RecentActivity))
	}
	if d.RecentActivity[0].Type != "message" || d.RecentActivity[0].Title != "Hello" {
		t.Errorf("Expected the newest message first, got %+v", d.RecentActivity[0])
	}
	if last := d.RecentActivity[3]; last.Type != "article" {
		t.Errorf("Expected the article last, got %+v", last)
	}

	titles := map[string]bool{}
	for _, item := range d.RecentActivity {
		titles[item.Title] = true
	}
	if !titles["Comment on: Hello"] || !titles["Comment on: Deleted Article"] {
		t.Errorf("Expected comment titles to name their article, got %v", titles)
	}
}

func TestDashboardService_Empty(t *testing.T) {
	f := newFixture(t)
	d, err := f.svc.Dashboard.Dashboard(clientCtx())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if d.RecentActivity == nil || len(d.RecentActivity) != 0 {
		t.Errorf("Expected an empty activity list, got %v", d.RecentActivity)
	}
}
