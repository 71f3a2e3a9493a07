package history

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fraudguard/pkg/platform/httputil"
)

// Handler exposes the search history endpoint.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/history/search", h.handleSearch)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[Request](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Search(r.Context(), req)
	if err != nil {
		h.logger.Warn("history search rejected", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Severity: result.Verdict.Severity,
		Message:  result.Verdict.Message,
		Data: map[string]any{
			"history": result.Terms,
			"size":    len(result.Terms),
		},
	})
}
