package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
)

type generateRequest struct {
	Style string `json:"style"`
}

// Generate selects the requested style and runs one generation for the
// caller's session. The controller enforces the single in-flight rule; a
// concurrent call gets 409.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	ctrl, _, ok := a.controller(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Style != "" {
		if err := ctrl.SelectStyle(req.Style); err != nil {
			a.error(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
	}

	batch, err := ctrl.Generate(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInFlight):
			a.Metrics.GenerationsTotal.WithLabelValues("rejected").Inc()
			a.error(w, http.StatusConflict, "in_flight", "a generation is already in progress")
		case errors.Is(err, domain.ErrPrecondition):
			a.error(w, http.StatusBadRequest, "precondition_failed", err.Error())
		case errors.Is(err, domain.ErrStorage):
			a.Metrics.GenerationsTotal.WithLabelValues("storage_error").Inc()
			a.error(w, http.StatusBadGateway, "storage_error", err.Error())
		case errors.Is(err, domain.ErrGeneration):
			a.Metrics.GenerationsTotal.WithLabelValues("generation_error").Inc()
			a.error(w, http.StatusBadGateway, "generation_error", err.Error())
		default:
			a.error(w, http.StatusInternalServerError, "internal", "generation failed")
		}
		return
	}

	a.Metrics.GenerationsTotal.WithLabelValues("success").Inc()
	a.json(w, http.StatusOK, map[string]any{"items": batch})
}
