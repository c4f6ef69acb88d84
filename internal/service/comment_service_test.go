package service_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/service"
)

const (
	articleID = "11111111-1111-1111-1111-111111111111"
	otherID   = "22222222-2222-2222-2222-222222222222"
	commentID = "33333333-3333-3333-3333-333333333333"
	replyID   = "44444444-4444-4444-4444-444444444444"
)

func TestCommentService_SubmitIsPending(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "hello-world", nil)

	tests := []struct {
		name string
		ref  string
	}{
		{"by slug", "hello-world"},
		{"by id", articleID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := f.svc.Comment.Submit(clientCtx(), tt.ref, &models.SubmitCommentInput{
				AuthorName: "  Ada  ",
				Content:    "Great read",
			})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if view.IsApproved {
				t.Errorf("Expected new comment to be unapproved")
			}
			if view.Status != models.CommentStatusPending {
				t.Errorf("Expected status pending, got %s", view.Status)
			}
			if view.AuthorName != "Ada" {
				t.Errorf("Expected trimmed author name, got %q", view.AuthorName)
			}

			stored := f.repos.Comment.Comments[view.ID]
			if stored == nil {
				t.Fatal("Expected comment to be stored")
			}
			if stored.IPAddress != testIP || stored.UserAgent != testAgent {
				t.Errorf("Expected client metadata to be recorded, got %q / %q", stored.IPAddress, stored.UserAgent)
			}
		})
	}
}

func TestCommentService_HoneypotCreatesNothing(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "hello-world", nil)

	view, err := f.svc.Comment.Submit(clientCtx(), "hello-world", &models.SubmitCommentInput{
		AuthorName: "Bot",
		Content:    "Buy now",
		Website:    "http://spam.example",
	})
	if err != nil {
		t.Fatalf("Expected silent success, got %v", err)
	}
	if view != nil {
		t.Errorf("Expected no comment view, got %+v", view)
	}
	if len(f.repos.Comment.Comments) != 0 {
		t.Errorf("Expected 0 comments, got %d", len(f.repos.Comment.Comments))
	}
}

func TestCommentService_ArticleMustBePublished(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "draft", func(a *models.Article) { a.PublishedAt = nil })
	future := f.clock.Now().Add(24 * time.Hour)
	f.addArticle(t, otherID, "scheduled", func(a *models.Article) { a.PublishedAt = &future })

	for _, ref := range []string{"draft", "scheduled", "missing"} {
		t.Run(ref, func(t *testing.T) {
			_, err := f.svc.Comment.Submit(clientCtx(), ref, &models.SubmitCommentInput{AuthorName: "Ada", Content: "Hi"})
			if !errors.Is(err, service.ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestCommentService_Validation(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "hello-world", nil)
	f.addArticle(t, otherID, "other", nil)
	f.addComment(t, commentID, articleID, models.CommentStatusApproved, nil)
	f.addComment(t, replyID, articleID, models.CommentStatusApproved, strPtr(commentID))
	foreign := "55555555-5555-5555-5555-555555555555"
	f.addComment(t, foreign, otherID, models.CommentStatusApproved, nil)

	tests := []struct {
		name  string
		input models.SubmitCommentInput
		field string
	}{
		{"missing author", models.SubmitCommentInput{Content: "Hi"}, "author_name"},
		{"blank content", models.SubmitCommentInput{AuthorName: "Ada", Content: "   "}, "content"},
		{"malformed parent", models.SubmitCommentInput{AuthorName: "Ada", Content: "Hi", ParentID: strPtr("nope")}, "parent_id"},
		{"unknown parent", models.SubmitCommentInput{AuthorName: "Ada", Content: "Hi", ParentID: strPtr("66666666-6666-6666-6666-666666666666")}, "parent_id"},
		{"parent on other article", models.SubmitCommentInput{AuthorName: "Ada", Content: "Hi", ParentID: strPtr(foreign)}, "parent_id"},
		{"reply to a reply", models.SubmitCommentInput{AuthorName: "Ada", Content: "Hi", ParentID: strPtr(replyID)}, "parent_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			_, err := f.svc.Comment.Submit(clientCtx(), "hello-world", &in)
			var verr *service.ValidationErrors
			if !errors.As(err, &verr) {
				t.Fatalf("Expected validation error, got %v", err)
			}
			if verr.Errors[0].Field != tt.field {
				t.Errorf("Expected error on %s, got %s", tt.field, verr.Errors[0].Field)
			}
		})
	}

	if len(f.repos.Comment.Comments) != 3 {
		t.Errorf("Expected no new comments, got %d total", len(f.repos.Comment.Comments))
	}
}

func TestCommentService_ReplyToTopLevel(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "hello-world", nil)
	f.addComment(t, commentID, articleID, models.CommentStatusApproved, nil)

	view, err := f.svc.Comment.Submit(clientCtx(), "hello-world", &models.SubmitCommentInput{
		AuthorName: "Ada",
		Content:    "Agreed",
		ParentID:   strPtr(commentID),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if view.ParentID == nil || *view.ParentID != commentID {
		t.Errorf("Expected parent %s, got %v", commentID, view.ParentID)
	}
}

func TestCommentService_RateLimit(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "hello-world", nil)
	max := f.cfg.RateLimit.Comment.Max

	for i := 0; i < max; i++ {
		in := &models.SubmitCommentInput{AuthorName: "Ada", Content: fmt.Sprintf("comment %d", i)}
		if _, err := f.svc.Comment.Submit(clientCtx(), "hello-world", in); err != nil {
			t.Fatalf("Attempt %d: expected no error, got %v", i+1, err)
		}
	}

	_, err := f.svc.Comment.Submit(clientCtx(), "hello-world", &models.SubmitCommentInput{AuthorName: "Ada", Content: "one more"})
	var rlErr *service.RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("Expected RateLimitError on attempt %d, got %v", max+1, err)
	}
	want := "Too many comments. Please try again in 3600 seconds."
	if rlErr.Message != want {
		t.Errorf("Expected message %q, got %q", want, rlErr.Message)
	}
	if len(f.repos.Comment.Comments) != max {
		t.Errorf("Expected %d comments, got %d", max, len(f.repos.Comment.Comments))
	}

	// another client is unaffected
	if _, err := f.svc.Comment.Submit(clientCtxFrom("198.51.100.1"), "hello-world", &models.SubmitCommentInput{AuthorName: "Bo", Content: "Hi"}); err != nil {
		t.Errorf("Expected other IP to be allowed, got %v", err)
	}

	f.clock.Advance(time.Hour + time.Second)
	if _, err := f.svc.Comment.Submit(clientCtx(), "hello-world", &models.SubmitCommentInput{AuthorName: "Ada", Content: "later"}); err != nil {
		t.Errorf("Expected attempt after the window to pass, got %v", err)
	}
}

func TestCommentService_HoneypotStillCountsAgainstLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Comment.Max = 1
	f := newFixtureWith(t, cfg)
	f.addArticle(t, articleID, "hello-world", nil)

	if _, err := f.svc.Comment.Submit(clientCtx(), "hello-world", &models.SubmitCommentInput{Website: "x"}); err != nil {
		t.Fatalf("Expected silent success, got %v", err)
	}
	_, err := f.svc.Comment.Submit(clientCtx(), "hello-world", &models.SubmitCommentInput{AuthorName: "Ada", Content: "Hi"})
	var rlErr *service.RateLimitError
	if !errors.As(err, &rlErr) {
		t.Errorf("Expected RateLimitError, got %v", err)
	}
}
