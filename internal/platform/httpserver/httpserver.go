// Package httpserver builds an HTTP server with sane defaults for this project.
package httpserver

import (
	"net/http"
	"time"
)

// New wraps the handler in a server with header and idle timeouts set.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
