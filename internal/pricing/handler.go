package pricing

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fraudguard/pkg/platform/httputil"
)

// Handler exposes the regional pricing endpoint.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/pricing/activate", h.handleActivate)
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[Request](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Activate(r.Context(), req)
	if err != nil {
		h.logger.Warn("pricing activation rejected", "error", err)
		httputil.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if !result.Verdict.Allow {
		status = http.StatusForbidden
	}
	resp := httputil.Response{
		Severity: result.Verdict.Severity,
		Message:  result.Verdict.Message,
	}
	if result.Verdict.Allow {
		resp.Data = map[string]float64{"discount": result.Discount}
	}
	httputil.WriteJSON(w, status, resp)
}
