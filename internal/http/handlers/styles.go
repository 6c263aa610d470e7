package handlers

import (
	"net/http"

	"server/internal/domain"
)

// ListStyles returns the static style preset catalog.
func (a *App) ListStyles(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": domain.StylePresets()})
}
