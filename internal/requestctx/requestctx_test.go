package requestctx_test

import (
	"context"
	"testing"

	"github.com/portfolio-api/internal/requestctx"
)

func TestClientRoundTrip(t *testing.T) {
	ctx := requestctx.WithClient(context.Background(), "203.0.113.9", "curl/8.0")

	c := requestctx.ClientFrom(ctx)
	if c.IP != "203.0.113.9" {
		t.Errorf("Expected IP 203.0.113.9, got %s", c.IP)
	}
	if c.UserAgent != "curl/8.0" {
		t.Errorf("Expected user agent curl/8.0, got %s", c.UserAgent)
	}
}

func TestEmptyContext(t *testing.T) {
	if c := requestctx.ClientFrom(context.Background()); c.IP != "" {
		t.Errorf("Expected empty client, got %+v", c)
	}
	if a := requestctx.ActorFrom(context.Background()); a != "" {
		t.Errorf("Expected empty actor, got %s", a)
	}
	if ctx := requestctx.WithActor(context.Background(), ""); requestctx.ActorFrom(ctx) != "" {
		t.Error("Expected empty actor to be ignored")
	}
}
