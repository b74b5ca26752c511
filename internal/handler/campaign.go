package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/collabhub/internal/auth"
	"github.com/sakif/collabhub/internal/service"
)

type CampaignHandler struct {
	service *service.CampaignService
	logger  *slog.Logger
}

func NewCampaignHandler(svc *service.CampaignService, logger *slog.Logger) *CampaignHandler {
	return &CampaignHandler{service: svc, logger: logger}
}

// HandleCreate handles POST /api/campaigns (brands only).
func (h *CampaignHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CampaignInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	c, err := h.service.Create(r.Context(), auth.MustUser(r.Context()), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HandleList handles GET /api/campaigns.
func (h *CampaignHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleVisible handles GET /api/campaigns/visible?niche=. The caller is
// optional; OptionalAuth puts it in the context when a valid token is sent.
func (h *CampaignHandler) HandleVisible(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserFromContext(r.Context())
	list, err := h.service.Visible(r.Context(), caller, r.URL.Query().Get("niche"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleMatches handles GET /api/campaigns/{id}/matches.
func (h *CampaignHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	creators, err := h.service.Matches(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, creators)
}

// HandleClose handles POST /api/campaigns/{id}/close.
func (h *CampaignHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Close(r.Context(), chi.URLParam(r, "id"), auth.MustUser(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
