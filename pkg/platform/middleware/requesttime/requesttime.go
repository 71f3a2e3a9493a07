// Package requesttime captures a single "now" per HTTP request so every check
// in the chain (freshness, cooldown, attempt timestamps) observes the same
// instant.
package requesttime

import (
	"net/http"
	"time"

	"fraudguard/pkg/requestcontext"
)

// Middleware stores the current time in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
