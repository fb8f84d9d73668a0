package handlers

import (
	"Trades/internal/middleware"
	"Trades/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// requireAuth отклоняет анонимные запросы.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) string {
	uid, _ := middleware.GetUserIDFromContext(r.Context())
	return uid
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// statusFor переводит доменную ошибку в HTTP-статус.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNoUser):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTradeNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, service.ErrLoginTaken),
		errors.Is(err, service.ErrEmptyDeck),
		errors.Is(err, service.ErrDeckSuperseded),
		errors.Is(err, service.ErrTradeCompleted),
		errors.Is(err, service.ErrItemUnavailable):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidDirection),
		errors.Is(err, service.ErrInvalidStars),
		errors.Is(err, service.ErrEmptyItemID),
		errors.Is(err, service.ErrOwnItem),
		errors.Is(err, service.ErrInvalidItem),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrSelfMessage),
		errors.Is(err, service.ErrEmptyCredentials),
		errors.Is(err, service.ErrTradeTooSmall),
		errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrSingleOwner):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError отвечает статусом по ошибке; 5xx логируются, текст наружу не отдаётся.
func writeError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Errorw(op+": service error", "error", err)
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
