// Package metadata extracts client-supplied request metadata (IP, origin,
// user agent) once per request and exposes it via requestcontext. Rules and
// services read the parsed values instead of digging through headers.
package metadata

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"fraudguard/pkg/requestcontext"
)

// Middleware resolves client metadata and assigns a request correlation ID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		ctx = requestcontext.WithRequestID(ctx, uuid.NewString())
		ctx = requestcontext.WithClientIP(ctx, clientIP(r))
		ctx = requestcontext.WithOrigin(ctx, r.Header.Get("Origin"))

		rawUA := r.Header.Get("User-Agent")
		ctx = requestcontext.WithUserAgent(ctx, rawUA)
		if rawUA != "" {
			ua := useragent.New(rawUA)
			name, _ := ua.Browser()
			ctx = requestcontext.WithBrowser(ctx, name)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP picks the left-most X-Forwarded-For entry, falling back to the
// connection's remote address. Proxies append their own address to the right,
// so the left-most entry is the original client.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
