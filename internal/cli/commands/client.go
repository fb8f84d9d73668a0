package commands

import (
	"Trades/internal/cli/api"
	"Trades/internal/cli/repo"
	fsrepo "Trades/internal/cli/repo/fs"
	"Trades/internal/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotLoggedIn is returned when the server rejects the stored token.
var ErrNotLoggedIn = errors.New("not logged in, run `login` first")

// StatusError — ответ сервера с кодом ошибки.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server status %d", e.Code)
	}
	return fmt.Sprintf("server status %d: %s", e.Code, e.Body)
}

func isStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

func tokenStore(cfg *config.Config) repo.AuthStore {
	return fsrepo.AuthFSStore{Path: cfg.TokenFile}
}

func endpoint(cfg *config.Config, path string) string {
	return strings.TrimRight(cfg.ServerURL, "/") + path
}

// call выполняет запрос с сохранённым токеном и декодирует JSON-ответ в out (если не nil).
func call(ctx context.Context, cfg *config.Config, method, path string, payload, out any) (int, error) {
	token, _ := tokenStore(cfg).Load()
	resp, body, err := api.DoJSON(ctx, method, endpoint(cfg, path), payload, token)
	if err != nil {
		return 0, err
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return resp.StatusCode, ErrNotLoggedIn
	case resp.StatusCode >= http.StatusBadRequest:
		return resp.StatusCode, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode: %w", err)
		}
	}
	return resp.StatusCode, nil
}
