package handlers

import (
	"Trades/internal/model"
	"Trades/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DeckHandler — колода, свайпы и мэтчи текущего пользователя.
type DeckHandler struct {
	Sessions *service.Sessions
	Logger   *zap.SugaredLogger
}

func NewDeckHandler(sessions *service.Sessions, logger *zap.SugaredLogger) *DeckHandler {
	return &DeckHandler{Sessions: sessions, Logger: logger}
}

type deckResponse struct {
	Deck   []model.Item       `json:"deck"`
	Filter service.DeckFilter `json:"filter"`
}

type swipeRequest struct {
	Direction model.Direction `json:"direction"`
}

// Deck пересобирает колоду под фильтр ?tier=&category=
func (h *DeckHandler) Deck(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tier, ok := model.ParseValueTier(q.Get("tier"))
	if !ok {
		http.Error(w, "invalid tier", http.StatusBadRequest)
		return
	}
	cat, ok := model.ParseCategory(q.Get("category"))
	if !ok {
		http.Error(w, "invalid category", http.StatusBadRequest)
		return
	}

	filter := service.DeckFilter{ValueTier: tier, Category: cat}
	deck, err := h.Sessions.RefreshDeck(r.Context(), currentUser(r), filter)
	if err != nil {
		writeError(w, h.Logger, "Deck", err)
		return
	}
	writeJSON(w, http.StatusOK, deckResponse{Deck: deck, Filter: filter})
}

// Swipe применяет свайп к голове колоды
func (h *DeckHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	var req swipeRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	res, err := h.Sessions.Swipe(r.Context(), currentUser(r), req.Direction)
	if err != nil {
		writeError(w, h.Logger, "Swipe", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Matches список мэтчей
func (h *DeckHandler) Matches(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Sessions.MatchIDs(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, h.Logger, "Matches", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"matches": ids})
}

// AddMatch подтверждает мэтч; повторный вызов отвечает 200 вместо 201
func (h *DeckHandler) AddMatch(w http.ResponseWriter, r *http.Request) {
	added, err := h.Sessions.ConfirmMatch(r.Context(), currentUser(r), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, h.Logger, "AddMatch", err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]bool{"added": added})
}

// RemoveMatch снимает мэтч; отсутствующий — тоже 204
func (h *DeckHandler) RemoveMatch(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Sessions.Unmatch(r.Context(), currentUser(r), chi.URLParam(r, "itemID")); err != nil {
		writeError(w, h.Logger, "RemoveMatch", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
