package service_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/service"
)

func TestNewsletterService_Subscribe(t *testing.T) {
	f := newFixture(t)

	sub, err := f.svc.Newsletter.Subscribe(clientCtx(), &models.SubscribeInput{Email: "  Reader@Example.COM ", Name: " Reader "})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if sub.Email != "reader@example.com" {
		t.Errorf("Expected normalized email, got %s", sub.Email)
	}
	if !sub.IsActive || sub.Name != "Reader" {
		t.Errorf("Expected an active subscriber named Reader, got %+v", sub)
	}

	_, err = f.svc.Newsletter.Subscribe(clientCtx(), &models.SubscribeInput{Email: "reader@example.com"})
	var conflict *service.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected conflict for an active subscriber, got %v", err)
	}
	if conflict.Message != "You are already subscribed!" {
		t.Errorf("Unexpected conflict message: %s", conflict.Message)
	}
}

func TestNewsletterService_UnsubscribeAndReactivate(t *testing.T) {
	f := newFixture(t)

	sub, err := f.svc.Newsletter.Subscribe(clientCtx(), &models.SubscribeInput{Email: "reader@example.com", Name: "Reader"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := f.svc.Newsletter.Unsubscribe(clientCtx(), "READER@example.com"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	stored := f.repos.Subscriber.Subscribers[sub.ID]
	if stored.IsActive || stored.UnsubscribedAt == nil {
		t.Errorf("Expected subscriber to be inactive with unsubscribed_at, got %+v", stored)
	}

	if err := f.svc.Newsletter.Unsubscribe(clientCtx(), "nobody@example.com"); err != nil {
		t.Errorf("Expected unknown email to be a no-op, got %v", err)
	}

	f.clock.Advance(24 * time.Hour)
	again, err := f.svc.Newsletter.Subscribe(clientCtx(), &models.SubscribeInput{Email: "reader@example.com"})
	if err != nil {
		t.Fatalf("Expected reactivation, got %v", err)
	}
	if again.ID != sub.ID {
		t.Errorf("Expected the same subscriber to be reactivated, got a new id %s", again.ID)
	}
	if !again.IsActive || again.UnsubscribedAt != nil {
		t.Errorf("Expected an active subscriber, got %+v", again)
	}
	if again.Name != "Reader" {
		t.Errorf("Expected the old name to be kept, got %q", again.Name)
	}
	if !again.SubscribedAt.Equal(f.clock.Now()) {
		t.Errorf("Expected subscribed_at to be reset, got %v", again.SubscribedAt)
	}
}

func TestNewsletterService_Validation(t *testing.T) {
	f := newFixture(t)

	for _, email := range []string{"", "not-an-email"} {
		_, err := f.svc.Newsletter.Subscribe(clientCtx(), &models.SubscribeInput{Email: email})
		var verr *service.ValidationErrors
		if !errors.As(err, &verr) {
			t.Errorf("Expected validation error for %q, got %v", email, err)
		}
	}
	if len(f.repos.Subscriber.Subscribers) != 0 {
		t.Errorf("Expected no subscribers, got %d", len(f.repos.Subscriber.Subscribers))
	}
}

func TestNewsletterService_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Newsletter.Max = 2
	f := newFixtureWith(t, cfg)

	for i := 0; i < 2; i++ {
		// failed validation still uses the budget
		_, _ = f.svc.Newsletter.Subscribe(clientCtx(), &models.SubscribeInput{Email: "bad"})
	}
	_, err := f.svc.Newsletter.Subscribe(clientCtx(), &models.SubscribeInput{Email: "reader@example.com"})
	var rl *service.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("Expected rate limit error, got %v", err)
	}
	if !strings.Contains(rl.Message, "3600 seconds") {
		t.Errorf("Expected seconds in message, got %q", rl.Message)
	}
}

func TestNewsletterService_StatsAndList(t *testing.T) {
	f := newFixture(t)

	lastMonth := f.clock.Now().AddDate(0, -1, 0)
	f.repos.Subscriber.Subscribers["old"] = &models.Subscriber{ID: "old", Email: "old@example.com", IsActive: false, SubscribedAt: lastMonth}
	if _, err := f.svc.Newsletter.Subscribe(clientCtx(), &models.SubscribeInput{Email: "new@example.com"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	stats, err := f.svc.Newsletter.Stats(clientCtx())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := models.SubscriberStats{Total: 2, Active: 1, Inactive: 1, ThisMonth: 1}
	if stats != want {
		t.Errorf("Expected %+v, got %+v", want, stats)
	}

	page, err := f.svc.Newsletter.List(clientCtx(), models.SubscriberFilter{Status: "active"}, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if page.Meta.Total != 1 || page.Data[0].Email != "new@example.com" {
		t.Errorf("Expected only the active subscriber, got %+v", page.Data)
	}

	if _, err := f.svc.Newsletter.List(clientCtx(), models.SubscriberFilter{Status: "banned"}, 1); err == nil {
		t.Error("Expected validation error for unknown status")
	}
}
