package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/collabhub/internal/auth"
	"github.com/sakif/collabhub/internal/service"
)

type CollaborationHandler struct {
	service *service.CollaborationService
	logger  *slog.Logger
}

func NewCollaborationHandler(svc *service.CollaborationService, logger *slog.Logger) *CollaborationHandler {
	return &CollaborationHandler{service: svc, logger: logger}
}

// HandlePropose handles POST /api/collaborations (brands only).
func (h *CollaborationHandler) HandlePropose(w http.ResponseWriter, r *http.Request) {
	var in service.ProposeInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	c, err := h.service.Propose(r.Context(), auth.MustUser(r.Context()), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HandleAccept handles POST /api/collaborations/{id}/accept (named creator only).
func (h *CollaborationHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Accept(r.Context(), chi.URLParam(r, "id"), auth.MustUser(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleList handles GET /api/collaborations.
func (h *CollaborationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListMine(r.Context(), auth.MustUser(r.Context()).ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
