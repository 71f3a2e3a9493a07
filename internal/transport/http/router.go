// Package httptransport assembles the HTTP surface: shared middleware, the
// action endpoints registered by each feature handler, and the operational
// endpoints.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dErrors "fraudguard/pkg/domain-errors"
	"fraudguard/pkg/platform/httputil"
	"fraudguard/pkg/platform/middleware/metadata"
	"fraudguard/pkg/platform/middleware/requesttime"
)

// Registrar mounts a feature's endpoints on the router.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires middleware, the operational endpoints, and every feature
// handler. Handlers stay thin; policy lives in the services they call.
func NewRouter(handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(metadata.Middleware)
	r.Use(requesttime.Middleware)

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeMethodNotAllowed,
			"Only POST requests are allowed."))
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Endpoint not found."))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
