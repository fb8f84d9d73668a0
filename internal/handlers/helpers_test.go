package handlers_test

import (
	"Trades/internal/config"
	"Trades/internal/handlers"
	"Trades/internal/middleware"
	"Trades/internal/model"
	"Trades/internal/repo"
	"Trades/internal/service"
	"Trades/internal/worker"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type testEnv struct {
	router http.Handler
	cfg    *config.Config
	db     *gorm.DB
	queue  *worker.Queue
}

// newTestEnv собирает полный стек поверх in-memory SQLite
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repo.Migrate(db))

	cfg := &config.Config{AuthSecret: "test-secret", DeckLimit: 50}
	log := zap.NewNop().Sugar()
	q := worker.NewQueue(log, 64)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = q.Close(ctx)
		_ = sqlDB.Close()
	})

	catalog := repo.NewCatalogRepository(db)
	users := repo.NewUserRepository(db)
	snapshots := repo.NewSnapshotRepository(db)
	cache, err := service.NewConversationCache(16)
	require.NoError(t, err)

	svc := handlers.Services{
		Users: service.NewUserService(users),
		Items: service.NewItemService(catalog, log),
		Sessions: service.NewSessions(
			service.NewDeckBuilder(catalog, log, cfg.DeckLimit),
			service.NewSwipeResolver(repo.NewSwipeLog(db), q, log),
			catalog, snapshots, q, log,
		),
		Ratings: service.NewRatingAggregator(snapshots, q, log),
		Chat:    service.NewChatService(repo.NewMessageRepository(db), users, catalog, cache, log),
		Trades:  service.NewTradeService(repo.NewTradeRepository(db), catalog, log),
	}
	h := handlers.NewHandler(svc, log, cfg)
	return &testEnv{router: h.Router, cfg: cfg, db: db, queue: q}
}

func (e *testEnv) addUser(t *testing.T, id, login, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = repo.NewUserRepository(e.db).CreateUser(context.Background(), &model.User{ID: id, Login: login, Password: string(hash), DisplayName: "name-" + login})
	require.NoError(t, err)
}

func (e *testEnv) addItem(t *testing.T, id, owner string, tier model.ValueTier, minute int) {
	t.Helper()
	err := repo.NewCatalogRepository(e.db).CreateItem(context.Background(), &model.Item{
		ID:        id,
		OwnerID:   owner,
		Title:     "item " + id,
		ValueTier: tier,
		Category:  model.CategoryBooks,
		Status:    model.StatusActive,
		CreatedAt: time.Date(2024, 5, 1, 12, minute, 0, 0, time.UTC),
	})
	require.NoError(t, err)
}

// do выполняет запрос от имени userID (пустой — анонимно)
func (e *testEnv) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		addAuth(t, req, userID, e.cfg.AuthSecret)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func addAuth(t *testing.T, req *http.Request, userID, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_, err := middleware.SetLoginCookie(rr, userID, secret)
	require.NoError(t, err)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}
