package service

import (
	"Trades/internal/metrics"
	"Trades/internal/repo"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
)

// RatingsSnapshotKey — ключ общего снапшота рейтингов.
const RatingsSnapshotKey = "trades_ratings"

// Rating — публичное представление агрегата.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type ratingAggregate struct {
	TotalStars int `json:"totalStars"`
	Count      int `json:"count"`
}

type ratingSnapshot struct {
	ByItem map[string]ratingAggregate `json:"byItem"`
	// itemID -> userID -> stars
	ByUserAndItem map[string]map[string]int `json:"byUserAndItem"`
}

// RatingAggregator хранит по каждому предмету сумму и число оценок
// и одну оценку на пару (пользователь, предмет).
// Инвариант: totalStars == сумме записей предмета, count == их числу.
type RatingAggregator struct {
	mu      sync.RWMutex
	byItem  map[string]ratingAggregate
	entries map[string]map[string]int

	store  repo.SnapshotStore
	queue  Dispatcher
	logger *zap.SugaredLogger
}

func NewRatingAggregator(store repo.SnapshotStore, queue Dispatcher, logger *zap.SugaredLogger) *RatingAggregator {
	return &RatingAggregator{
		byItem:  make(map[string]ratingAggregate),
		entries: make(map[string]map[string]int),
		store:   store,
		queue:   queue,
		logger:  logger,
	}
}

// LoadRatingAggregator восстанавливает агрегатор из снапшота.
// Агрегаты пересчитываются из записей, поэтому инвариант держится даже при рассинхроне в снапшоте.
// Ошибка чтения возвращается: пустой агрегатор затёр бы непрочитанный снапшот первой же оценкой.
func LoadRatingAggregator(ctx context.Context, store repo.SnapshotStore, queue Dispatcher, logger *zap.SugaredLogger) (*RatingAggregator, error) {
	a := NewRatingAggregator(store, queue, logger)

	data, found, err := store.Load(ctx, RatingsSnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("load ratings snapshot: %w", err)
	}
	if !found {
		return a, nil
	}
	var snap ratingSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.Warnw("ratings snapshot is malformed, starting empty", "error", err)
		return a, nil
	}
	for itemID, users := range snap.ByUserAndItem {
		for userID, stars := range users {
			if itemID == "" || userID == "" || stars < 1 || stars > 5 {
				continue
			}
			a.applyLocked(itemID, userID, stars)
		}
	}
	if len(snap.ByItem) != len(a.byItem) {
		logger.Warnw("ratings snapshot aggregates rebuilt from entries", "stored", len(snap.ByItem), "rebuilt", len(a.byItem))
	}
	return a, nil
}

// SetRating добавляет или заменяет оценку пользователя.
func (a *RatingAggregator) SetRating(itemID, userID string, stars int) error {
	if stars < 1 || stars > 5 {
		return ErrInvalidStars
	}
	if itemID == "" {
		return ErrEmptyItemID
	}
	if userID == "" {
		return ErrNoUser
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.applyLocked(itemID, userID, stars) {
		metrics.RecordRating("replace")
	} else {
		metrics.RecordRating("new")
	}
	a.persistLocked()
	return nil
}

// applyLocked возвращает true, если оценка заменила прежнюю.
func (a *RatingAggregator) applyLocked(itemID, userID string, stars int) bool {
	users, ok := a.entries[itemID]
	if !ok {
		users = make(map[string]int)
		a.entries[itemID] = users
	}
	agg := a.byItem[itemID]
	old, replaced := users[userID]
	if replaced {
		agg.TotalStars += stars - old
	} else {
		agg.TotalStars += stars
		agg.Count++
	}
	users[userID] = stars
	a.byItem[itemID] = agg
	return replaced
}

// GetRating возвращает среднее, округлённое до 0.1, и число оценок.
func (a *RatingAggregator) GetRating(itemID string) Rating {
	a.mu.RLock()
	agg := a.byItem[itemID]
	a.mu.RUnlock()

	if agg.Count == 0 {
		return Rating{}
	}
	avg := float64(agg.TotalStars) / float64(agg.Count)
	return Rating{Average: math.Round(avg*10) / 10, Count: agg.Count}
}

// GetUserRating возвращает оценку пользователя, если она есть.
func (a *RatingAggregator) GetUserRating(itemID, userID string) (int, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	stars, ok := a.entries[itemID][userID]
	return stars, ok
}

func (a *RatingAggregator) persistLocked() {
	snap := ratingSnapshot{
		ByItem:        a.byItem,
		ByUserAndItem: a.entries,
	}
	// сериализуем под блокировкой: в очередь уходит неизменяемая копия
	data, err := json.Marshal(snap)
	if err != nil {
		a.logger.Errorw("failed to encode ratings snapshot", "error", err)
		return
	}
	store := a.store
	a.queue.Submit("ratings", func(ctx context.Context) error {
		return store.Save(ctx, RatingsSnapshotKey, data)
	})
}
