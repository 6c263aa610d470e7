package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
	"server/internal/workflow"
)

// App is the handler container wiring the workflow manager and shared
// infrastructure into the HTTP surface.
type App struct {
	Config    *infra.Config
	Logger    zerolog.Logger
	Metrics   *infra.Metrics
	Workflows *workflow.Manager
}

// NewApp builds the handler container.
func NewApp(cfg *infra.Config, logger zerolog.Logger, metrics *infra.Metrics, workflows *workflow.Manager) *App {
	return &App{Config: cfg, Logger: logger, Metrics: metrics, Workflows: workflows}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// controller resolves the per-user workflow controller for the request.
func (a *App) controller(r *http.Request) (*workflow.Controller, domain.User, bool) {
	user := middleware.UserFromContext(r.Context())
	if user.Anonymous() {
		return nil, user, false
	}
	ctrl, err := a.Workflows.Get(user)
	if err != nil {
		a.Logger.Error().Err(err).Str("user", user.ID).Msg("handlers: controller init failed")
		return nil, user, false
	}
	return ctrl, user, true
}
