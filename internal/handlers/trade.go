package handlers

import (
	"Trades/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TradeHandler — предложение и завершение обмена.
type TradeHandler struct {
	Trades *service.TradeService
	Logger *zap.SugaredLogger
}

func NewTradeHandler(trades *service.TradeService, logger *zap.SugaredLogger) *TradeHandler {
	return &TradeHandler{Trades: trades, Logger: logger}
}

type proposeRequest struct {
	ItemIDs []string `json:"item_ids"`
}

// Propose создаёт обмен
func (h *TradeHandler) Propose(w http.ResponseWriter, r *http.Request) {
	var req proposeRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	t, err := h.Trades.ProposeTrade(r.Context(), currentUser(r), req.ItemIDs)
	if err != nil {
		writeError(w, h.Logger, "ProposeTrade", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// Complete завершает обмен; предметы уходят в traded
func (h *TradeHandler) Complete(w http.ResponseWriter, r *http.Request) {
	t, err := h.Trades.CompleteTrade(r.Context(), currentUser(r), chi.URLParam(r, "tradeID"))
	if err != nil {
		writeError(w, h.Logger, "CompleteTrade", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
