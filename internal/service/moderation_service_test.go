package service_test

import (
	"errors"
	"testing"

	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/service"
)

func TestModerationService_Transitions(t *testing.T) {
	tests := []struct {
		name   string
		from   models.CommentStatus
		action string
		want   models.CommentStatus
	}{
		{"approve pending", models.CommentStatusPending, "approve", models.CommentStatusApproved},
		{"reject pending", models.CommentStatusPending, "reject", models.CommentStatusRejected},
		{"reject approved", models.CommentStatusApproved, "reject", models.CommentStatusRejected},
		{"approve rejected", models.CommentStatusRejected, "approve", models.CommentStatusApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addArticle(t, articleID, "hello-world", nil)
			f.addComment(t, commentID, articleID, tt.from, nil)

			var view *models.CommentView
			var err error
			if tt.action == "approve" {
				view, err = f.svc.Moderation.Approve(clientCtx(), commentID)
			} else {
				view, err = f.svc.Moderation.Reject(clientCtx(), commentID)
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if view.Status != tt.want {
				t.Errorf("Expected status %s, got %s", tt.want, view.Status)
			}
			if view.IsApproved != (tt.want == models.CommentStatusApproved) {
				t.Errorf("Expected is_approved to follow status, got %v", view.IsApproved)
			}
			if got := f.repos.Comment.Comments[commentID].Status; got != tt.want {
				t.Errorf("Expected stored status %s, got %s", tt.want, got)
			}
			if len(f.repos.Activity.Entries) != 1 {
				t.Errorf("Expected 1 activity entry, got %d", len(f.repos.Activity.Entries))
			}
		})
	}
}

func TestModerationService_ApproveTwiceIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "hello-world", nil)
	f.addComment(t, commentID, articleID, models.CommentStatusApproved, nil)

	if _, err := f.svc.Moderation.Approve(clientCtx(), commentID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(f.repos.Activity.Entries) != 0 {
		t.Errorf("Expected no activity for a no-op, got %d", len(f.repos.Activity.Entries))
	}
}

func TestModerationService_DeleteRemovesReplies(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "hello-world", nil)
	f.addComment(t, commentID, articleID, models.CommentStatusApproved, nil)
	f.addComment(t, replyID, articleID, models.CommentStatusPending, strPtr(commentID))

	if err := f.svc.Moderation.Delete(clientCtx(), commentID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(f.repos.Comment.Comments) != 0 {
		t.Errorf("Expected replies to be removed with the parent, got %d left", len(f.repos.Comment.Comments))
	}
	if err := f.svc.Moderation.Delete(clientCtx(), commentID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestModerationService_ListFilters(t *testing.T) {
	f := newFixture(t)
	f.addArticle(t, articleID, "hello-world", nil)
	f.addComment(t, commentID, articleID, models.CommentStatusPending, nil)
	f.addComment(t, replyID, articleID, models.CommentStatusApproved, nil)

	page, err := f.svc.Moderation.List(clientCtx(), models.CommentFilter{Status: models.CommentStatusPending}, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if page.Meta.Total != 1 || page.Data[0].ID != commentID {
		t.Errorf("Expected only the pending comment, got %+v", page.Meta)
	}

	_, err = f.svc.Moderation.List(clientCtx(), models.CommentFilter{Status: "spam"}, 1)
	var verr *service.ValidationErrors
	if !errors.As(err, &verr) {
		t.Errorf("Expected validation error for unknown status, got %v", err)
	}
}
