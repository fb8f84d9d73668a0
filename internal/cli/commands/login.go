package commands

import (
	"Trades/internal/cli/api"
	"Trades/internal/config"
	"Trades/internal/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type credentialsRequest struct {
	Login       string `json:"login"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type authResponse struct {
	User model.UserProfile `json:"user"`
}

// authenticate отправляет учётные данные и сохраняет токен и логин локально.
func authenticate(ctx context.Context, cfg *config.Config, path string, req credentialsRequest) (model.UserProfile, error) {
	resp, body, err := api.PostJSON(ctx, endpoint(cfg, path), req, "")
	if err != nil {
		return model.UserProfile{}, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return model.UserProfile{}, errors.New("invalid login or password")
	case http.StatusConflict:
		return model.UserProfile{}, errors.New("login already in use")
	default:
		return model.UserProfile{}, fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
	}

	store := tokenStore(cfg)
	if err := api.PersistAuthFromResponse(resp, store); err != nil {
		return model.UserProfile{}, fmt.Errorf("saving auth: %w", err)
	}
	_ = store.SaveLogin(req.Login)

	var ar authResponse
	_ = json.Unmarshal(body, &ar)
	return ar.User, nil
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store auth cookie" }
func (loginCmd) Usage() string       { return "login <login> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	u, err := authenticate(ctx, cfg, "/api/user/login", credentialsRequest{Login: args[0], Password: args[1]})
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Logged in as %s\n", displayName(u, args[0]))
	return nil
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and log in" }
func (registerCmd) Usage() string       { return "register <login> <password> [display name]" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	req := credentialsRequest{Login: args[0], Password: args[1], DisplayName: strings.Join(args[2:], " ")}
	u, err := authenticate(ctx, cfg, "/api/user/register", req)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Registered and logged in as %s\n", displayName(u, args[0]))
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Close the server session and forget the token" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	// локальный токен удаляем даже если сервер недоступен
	_, callErr := call(ctx, cfg, http.MethodPost, "/api/user/logout", nil, nil)
	if err := tokenStore(cfg).Clear(); err != nil {
		return err
	}
	if callErr != nil && !errors.Is(callErr, ErrNotLoggedIn) {
		fmt.Fprintf(Out, "Server logout failed: %v\n", callErr)
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show the current user" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	var u model.UserProfile
	if _, err := call(ctx, cfg, http.MethodGet, "/api/user/me", nil, &u); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Logged in as %s (%s)\n", u.DisplayName, u.ID)
	return nil
}

func displayName(u model.UserProfile, fallback string) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return fallback
}

func init() {
	RegisterCmd(loginCmd{})
	RegisterCmd(registerCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(statusCmd{})
}
