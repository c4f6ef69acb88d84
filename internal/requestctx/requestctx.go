// Package requestctx carries per-request client details through context.Context
// so services can rate limit and audit without depending on the HTTP layer.
package requestctx

import (
	"context"
)

type contextKey string

const (
	clientKey contextKey = "client"
	actorKey  contextKey = "actor"
)

// Client identifies the origin of a request
type Client struct {
	IP        string
	UserAgent string
}

// WithClient stores the client on ctx
func WithClient(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, clientKey, Client{IP: ip, UserAgent: userAgent})
}

// ClientFrom returns the client stored on ctx, or the zero Client
func ClientFrom(ctx context.Context) Client {
	if ctx == nil {
		return Client{}
	}
	if c, ok := ctx.Value(clientKey).(Client); ok {
		return c
	}
	return Client{}
}

// WithActor stores the authenticated admin's identity on ctx
func WithActor(ctx context.Context, actor string) context.Context {
	if actor == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the admin identity stored on ctx
func ActorFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	actor, _ := ctx.Value(actorKey).(string)
	return actor
}
