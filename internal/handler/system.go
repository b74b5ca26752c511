package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/collabhub/internal/service"
)

// SystemHandler serves the reset and health endpoints.
type SystemHandler struct {
	seed   *service.SeedService
	logger *slog.Logger
}

func NewSystemHandler(seed *service.SeedService, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{seed: seed, logger: logger}
}

// HandleSeed handles POST /api/seed: wipe every store and load demo data.
func (h *SystemHandler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	if err := h.seed.Reset(r.Context()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleHealth handles GET /api/health.
func (h *SystemHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
