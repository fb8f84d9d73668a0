package commands

import (
	fsrepo "Trades/internal/cli/repo/fs"
	"Trades/internal/config"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"testing"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы артефакты (токен/логин) создавались в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

// recordedRequest — запрос, пришедший на фейковый сервер.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Token  string
	Body   map[string]any
}

// fakeServer отвечает заранее заданными ответами по "METHOD /path" и запоминает запросы.
type fakeServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
}

type fakeResponse struct {
	status int
	body   string
	cookie string
}

func newFakeServer(t *testing.T, routes map[string]fakeResponse) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if c, err := r.Cookie("auth_token"); err == nil {
			rec.Token = c.Value
		}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.Body)
		}
		fs.mu.Lock()
		fs.requests = append(fs.requests, rec)
		fs.mu.Unlock()

		resp, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if resp.cookie != "" {
			http.SetCookie(w, &http.Cookie{Name: "auth_token", Value: resp.cookie})
		}
		w.WriteHeader(resp.status)
		_, _ = w.Write([]byte(resp.body))
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) last(t *testing.T) recordedRequest {
	t.Helper()
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.requests) == 0 {
		t.Fatalf("no requests recorded")
	}
	return fs.requests[len(fs.requests)-1]
}

// loggedIn кладёт токен в хранилище и возвращает конфиг клиента
func loggedIn(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	withTempConfig(t)
	if err := (fsrepo.AuthFSStore{}).Save("tok-1"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	return &config.Config{ServerURL: serverURL}
}
