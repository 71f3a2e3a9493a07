package login

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fraudguard/pkg/platform/httputil"
)

// Handler exposes the login endpoint.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/login", h.handleLogin)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[Request](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.logger.Warn("login rejected before evaluation", "error", err)
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
	if result.Token != "" {
		resp.Data = map[string]string{"token": result.Token}
	}
	httputil.WriteJSON(w, status, resp)
}
