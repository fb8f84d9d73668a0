package main

import (
	"Trades/internal/config"
	"Trades/internal/handlers"
	"Trades/internal/middleware"
	"Trades/internal/repo"
	"Trades/internal/service"
	"Trades/internal/worker"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	//context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}
	if cfg.SeedDemo {
		seeded, err := repo.SeedDemo(ctx, gormDB)
		if err != nil {
			sugar.Fatalw("failed to seed demo data", "error", err)
		}
		sugar.Infow("Demo seed", "inserted", seeded)
	}

	snapshots, err := newSnapshotStore(ctx, cfg, gormDB)
	if err != nil {
		sugar.Fatalw("failed to initialize snapshot store", "backend", cfg.SnapshotBackend, "error", err)
	}

	// фоновые записи: журнал свайпов, снапшоты мэтчей и рейтингов
	queue := worker.NewQueue(sugar, cfg.WriteQueueSize)

	catalog := repo.NewCatalogRepository(gormDB)
	userRepo := repo.NewUserRepository(gormDB)

	cache, err := service.NewConversationCache(cfg.ConversationCacheSize)
	if err != nil {
		sugar.Fatalw("failed to create conversation cache", "error", err)
	}

	ratings, err := service.LoadRatingAggregator(ctx, snapshots, queue, sugar)
	if err != nil {
		sugar.Fatalw("failed to load ratings snapshot", "backend", cfg.SnapshotBackend, "error", err)
	}

	sessions := service.NewSessions(
		service.NewDeckBuilder(catalog, sugar, cfg.DeckLimit),
		service.NewSwipeResolver(repo.NewSwipeLog(gormDB), queue, sugar),
		catalog, snapshots, queue, sugar,
	)
	svc := handlers.Services{
		Users:    service.NewUserService(userRepo),
		Items:    service.NewItemService(catalog, sugar),
		Sessions: sessions,
		Ratings:  ratings,
		Chat:     service.NewChatService(repo.NewMessageRepository(gormDB), userRepo, catalog, cache, sugar),
		Trades:   service.NewTradeService(repo.NewTradeRepository(gormDB), catalog, sugar),
	}

	idle := time.Duration(cfg.SessionIdleMinutes) * time.Minute
	scheduler, err := service.StartSessionEviction(sessions, time.Minute, idle, sugar)
	if err != nil {
		sugar.Fatalw("failed to start scheduler", "error", err)
	}

	h := handlers.NewHandler(svc, sugar, cfg)
	if h.Limiter != nil {
		// лимитеры неактивных клиентов не копятся
		_, err := scheduler.NewJob(
			gocron.DurationJob(time.Minute),
			gocron.NewTask(func() {
				if n := h.Limiter.Cleanup(10 * time.Minute); n > 0 {
					sugar.Infow("Rate limiters cleaned", "removed", n)
				}
			}),
		)
		if err != nil {
			sugar.Errorw("failed to schedule limiter cleanup", "error", err)
		}
	}

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"SnapshotBackend", cfg.SnapshotBackend,
		"DeckLimit", cfg.DeckLimit,
	)

	srv := &http.Server{Addr: addr, Handler: h.Router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Server shutdown failed", "error", err)
	}
	if err := scheduler.Shutdown(); err != nil {
		sugar.Errorw("Scheduler shutdown failed", "error", err)
	}
	// дописываем отложенные снапшоты до выхода
	if err := queue.Close(shutdownCtx); err != nil {
		sugar.Errorw("Write queue not drained", "error", err)
	}
}

// newSnapshotStore выбирает хранилище снапшотов: таблица в БД или бакет S3
func newSnapshotStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (repo.SnapshotStore, error) {
	if cfg.SnapshotBackend != "s3" {
		return repo.NewSnapshotRepository(db), nil
	}
	if cfg.S3Bucket == "" {
		return nil, errors.New("S3_BUCKET is required for s3 snapshot backend")
	}
	client, err := repo.NewS3Client(ctx, repo.S3Options{
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		return nil, err
	}
	return repo.NewS3SnapshotStore(client, cfg.S3Bucket, cfg.S3Prefix), nil
}
