package handlers

import (
	"Trades/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ChatHandler — список переписок и сообщения.
type ChatHandler struct {
	Chat     *service.ChatService
	Sessions *service.Sessions
	Logger   *zap.SugaredLogger
}

func NewChatHandler(chat *service.ChatService, sessions *service.Sessions, logger *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{Chat: chat, Sessions: sessions, Logger: logger}
}

type sendRequest struct {
	Text string `json:"text"`
}

// Conversations список чатов: собеседники из мэтчей и истории
func (h *ChatHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r)
	matchIDs, err := h.Sessions.MatchIDs(r.Context(), uid)
	if err != nil {
		writeError(w, h.Logger, "Conversations", err)
		return
	}
	convs, err := h.Chat.Conversations(r.Context(), uid, matchIDs)
	if err != nil {
		writeError(w, h.Logger, "Conversations", err)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

// Messages переписка с пользователем userID
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Chat.Messages(r.Context(), currentUser(r), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, h.Logger, "Messages", err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// Send отправляет сообщение пользователю userID
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	msg, err := h.Chat.SendMessage(r.Context(), currentUser(r), chi.URLParam(r, "userID"), req.Text)
	if err != nil {
		writeError(w, h.Logger, "Send", err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
