package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/collabhub/internal/service"
)

// DirectoryHandler serves the public user directory.
type DirectoryHandler struct {
	service *service.DirectoryService
	logger  *slog.Logger
}

func NewDirectoryHandler(svc *service.DirectoryService, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{service: svc, logger: logger}
}

// HandleListCreators handles GET /api/creators?niche=&q=&age=.
func (h *DirectoryHandler) HandleListCreators(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	creators, err := h.service.ListCreators(r.Context(), service.CreatorFilter{
		Niche: q.Get("niche"),
		Query: q.Get("q"),
		Age:   q.Get("age"),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, creators)
}

// HandleListBrands handles GET /api/brands.
func (h *DirectoryHandler) HandleListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.ListBrands(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

// HandleGetUser handles GET /api/users/{id}.
func (h *DirectoryHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
