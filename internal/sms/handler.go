package sms

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fraudguard/pkg/platform/httputil"
)

// Handler exposes the SMS verification endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/sms/send", h.handleSend)
	r.Post("/api/sms/submit-code", h.handleSubmitCode)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[SendRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Send(r.Context(), req)
	if err != nil {
		h.logger.Warn("SMS send rejected", "error", err)
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
		resp.Data = map[string]any{
			"remainingAttempts": result.RemainingAttempts,
			"verificationCode":  result.Code,
		}
	}
	httputil.WriteJSON(w, status, resp)
}

func (h *Handler) handleSubmitCode(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[SubmitRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.SubmitCode(r.Context(), req)
	if err != nil {
		h.logger.Warn("code submission rejected", "error", err)
		httputil.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if !result.Verdict.Allow {
		status = http.StatusForbidden
	}
	httputil.WriteJSON(w, status, httputil.Response{
		Severity: result.Verdict.Severity,
		Message:  result.Verdict.Message,
	})
}
