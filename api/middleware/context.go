package middleware

import "context"

type contextKey string

const (
	ctxCartOwner   contextKey = "cart_owner"
	ctxBearerToken contextKey = "bearer_token"
)

// CartOwnerFromContext returns the owner identifier resolved by the session
// middleware, or empty when the request never passed through it.
func CartOwnerFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCartOwner).(string); ok {
		return v
	}
	return ""
}

// BearerTokenFromContext returns the raw bearer token presented by a
// signed-in shopper so it can be forwarded to the backend order API.
func BearerTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxBearerToken).(string); ok {
		return v
	}
	return ""
}

// WithCartOwner injects the cart owner identifier into the context.
func WithCartOwner(ctx context.Context, ownerID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartOwner, ownerID)
}

// WithBearerToken injects the raw bearer token into the context.
func WithBearerToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxBearerToken, token)
}
