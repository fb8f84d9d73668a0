package service

import (
	"Trades/internal/metrics"
	"Trades/internal/model"
	"Trades/internal/repo"
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// SwipeResult — итог одного свайпа.
type SwipeResult struct {
	Next   []model.Item       `json:"deck"`
	Match  *model.Item        `json:"match,omitempty"`
	Record *model.SwipeRecord `json:"record,omitempty"`
}

// SwipeResolver применяет свайп к голове колоды.
type SwipeResolver struct {
	log    repo.SwipeLog
	queue  Dispatcher
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewSwipeResolver(log repo.SwipeLog, queue Dispatcher, logger *zap.SugaredLogger) *SwipeResolver {
	return &SwipeResolver{log: log, queue: queue, logger: logger, now: time.Now}
}

// Resolve снимает голову колоды и пишет запись в журнал через очередь.
// Правый свайп возвращает событие мэтча; в MatchStore оно не фиксируется.
// Пустая колода — ErrEmptyDeck без изменений и без события.
func (r *SwipeResolver) Resolve(userID string, deck []model.Item, dir model.Direction) (SwipeResult, error) {
	if !dir.Valid() {
		return SwipeResult{Next: deck}, ErrInvalidDirection
	}
	if userID == "" {
		return SwipeResult{Next: deck}, ErrNoUser
	}
	if len(deck) == 0 {
		return SwipeResult{Next: deck}, ErrEmptyDeck
	}

	head := deck[0]
	next := make([]model.Item, len(deck)-1)
	copy(next, deck[1:])

	rec := &model.SwipeRecord{
		ID:           ulid.Make().String(),
		SwiperID:     userID,
		TargetItemID: head.ID,
		Direction:    dir,
		CreatedAt:    r.now().UTC(),
	}
	entry := *rec
	r.queue.Submit("swipe_log", func(ctx context.Context) error {
		return r.log.Append(ctx, &entry)
	})
	metrics.RecordSwipe(string(dir))

	res := SwipeResult{Next: next, Record: rec}
	if dir == model.DirectionRight {
		match := head
		res.Match = &match
		r.logger.Infow("swipe right", "user_id", userID, "item_id", head.ID, "owner_id", head.OwnerID)
	}
	return res, nil
}
