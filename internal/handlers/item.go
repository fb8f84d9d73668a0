package handlers

import (
	"Trades/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ItemHandler — размещение предметов и рейтинги.
type ItemHandler struct {
	ItemService *service.ItemService
	Ratings     *service.RatingAggregator
	Logger      *zap.SugaredLogger
}

// NewItemHandler создаёт хендлер items
func NewItemHandler(itemService *service.ItemService, ratings *service.RatingAggregator, logger *zap.SugaredLogger) *ItemHandler {
	return &ItemHandler{ItemService: itemService, Ratings: ratings, Logger: logger}
}

type ratingResponse struct {
	ItemID  string  `json:"item_id"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
	MyStars *int    `json:"my_stars,omitempty"`
}

type ratingRequest struct {
	Stars int `json:"stars"`
}

// Create размещает новый предмет текущего пользователя
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	it, err := h.ItemService.CreateItem(r.Context(), currentUser(r), in)
	if err != nil {
		writeError(w, h.Logger, "CreateItem", err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

// Get карточка предмета
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.ItemService.GetItem(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, h.Logger, "GetItem", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// GetRating среднее, число оценок и оценка текущего пользователя
func (h *ItemHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if _, err := h.ItemService.GetItem(r.Context(), itemID); err != nil {
		writeError(w, h.Logger, "GetRating", err)
		return
	}
	writeJSON(w, http.StatusOK, h.ratingView(itemID, currentUser(r)))
}

// SetRating выставляет или заменяет оценку текущего пользователя
func (h *ItemHandler) SetRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	itemID := chi.URLParam(r, "itemID")
	if _, err := h.ItemService.GetItem(r.Context(), itemID); err != nil {
		writeError(w, h.Logger, "SetRating", err)
		return
	}
	uid := currentUser(r)
	if err := h.Ratings.SetRating(itemID, uid, req.Stars); err != nil {
		writeError(w, h.Logger, "SetRating", err)
		return
	}
	writeJSON(w, http.StatusOK, h.ratingView(itemID, uid))
}

func (h *ItemHandler) ratingView(itemID, userID string) ratingResponse {
	rt := h.Ratings.GetRating(itemID)
	resp := ratingResponse{ItemID: itemID, Average: rt.Average, Count: rt.Count}
	if stars, ok := h.Ratings.GetUserRating(itemID, userID); ok {
		resp.MyStars = &stars
	}
	return resp
}
