package handlers

import (
	"Trades/internal/config"
	"Trades/internal/middleware"
	"Trades/internal/model"
	"Trades/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler — регистрация, вход, выход.
type UserHandler struct {
	UserService *service.UserService
	Sessions    *service.Sessions
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, sessions *service.Sessions, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Sessions: sessions, Logger: logger, Config: cfg}
}

type credentialsRequest struct {
	Login       string `json:"login"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type authResponse struct {
	User  model.UserProfile `json:"user"`
	Token string            `json:"token"`
}

// Register регистрация пользователя и сразу вход
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Login, req.Password, req.DisplayName)
	if err != nil {
		writeError(w, h.Logger, "Register", err)
		return
	}
	h.signIn(w, r, user)
}

// Login вход пользователя
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, h.Logger, "Login", err)
		return
	}
	h.signIn(w, r, user)
}

func (h *UserHandler) signIn(w http.ResponseWriter, r *http.Request, user *model.User) {
	token, err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret)
	if err != nil {
		h.Logger.Errorw("failed to sign token", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if _, err := h.Sessions.Open(r.Context(), user.ID); err != nil {
		h.Logger.Warnw("failed to open session", "user_id", user.ID, "error", err)
	}
	h.Logger.Infow("user signed in", "user_id", user.ID, "login", user.Login)
	writeJSON(w, http.StatusOK, authResponse{User: user.Profile(), Token: token})
}

// Logout закрывает сессию и стирает cookie
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if uid, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		h.Sessions.Close(uid)
	}
	middleware.ClearLoginCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Status профиль текущего пользователя
func (h *UserHandler) Status(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	profile, err := h.UserService.Profile(r.Context(), uid)
	if err != nil {
		writeError(w, h.Logger, "Status", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
