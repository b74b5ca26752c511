package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/collabhub/internal/auth"
	"github.com/sakif/collabhub/internal/service"
)

// MessageHandler serves direct messages. Every route sits behind RequireAuth.
type MessageHandler struct {
	service *service.MessageService
	logger  *slog.Logger
}

func NewMessageHandler(svc *service.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{service: svc, logger: logger}
}

type sendMessageRequest struct {
	ToID string `json:"toId"`
	Text string `json:"text"`
}

// HandleSend handles POST /api/messages.
func (h *MessageHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUser(r.Context())

	var in sendMessageRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	msg, err := h.service.Send(r.Context(), user.ID, in.ToID, in.Text)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// HandleList handles GET /api/messages.
func (h *MessageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.service.ListMine(r.Context(), auth.MustUser(r.Context()).ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// HandleThreads handles GET /api/messages/threads.
func (h *MessageHandler) HandleThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.service.Threads(r.Context(), auth.MustUser(r.Context()).ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, threads)
}

// HandleConversation handles GET /api/messages/threads/{userId}.
func (h *MessageHandler) HandleConversation(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.service.Conversation(r.Context(), auth.MustUser(r.Context()).ID, chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}
