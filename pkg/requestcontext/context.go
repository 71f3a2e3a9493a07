// Package requestcontext provides HTTP-independent accessors for request-scoped
// values. Middleware sets the values; services read them without importing
// net/http. Tests inject values directly to pin time or client metadata.
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	clientIPKey    struct{}
	originKey      struct{}
	userAgentKey   struct{}
	browserKey     struct{}
)

// RequestID retrieves the correlation ID assigned by the request-ID middleware.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID injects a correlation ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Now retrieves the request-scoped time. All checks within one request observe
// the same "now" so cooldown math and audit timestamps stay consistent.
// Falls back to the wall clock when no request time was captured.
func Now(ctx context.Context) time.Time {
	if v, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return v
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// ClientIP retrieves the client IP resolved by the metadata middleware.
func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey{}).(string); ok {
		return v
	}
	return ""
}

// WithClientIP injects a client IP into the context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// Origin retrieves the Origin header value captured by the metadata middleware.
func Origin(ctx context.Context) string {
	if v, ok := ctx.Value(originKey{}).(string); ok {
		return v
	}
	return ""
}

// WithOrigin injects a request origin into the context.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

// UserAgent retrieves the raw User-Agent header.
func UserAgent(ctx context.Context) string {
	if v, ok := ctx.Value(userAgentKey{}).(string); ok {
		return v
	}
	return ""
}

// WithUserAgent injects a raw user agent string into the context.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, userAgentKey{}, ua)
}

// Browser retrieves the parsed browser name, e.g. "Chrome".
func Browser(ctx context.Context) string {
	if v, ok := ctx.Value(browserKey{}).(string); ok {
		return v
	}
	return ""
}

// WithBrowser injects a parsed browser name into the context.
func WithBrowser(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, browserKey{}, name)
}
