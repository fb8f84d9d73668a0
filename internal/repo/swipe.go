package repo

import (
	"Trades/internal/model"
	"context"

	"gorm.io/gorm"
)

// SwipeLog — журнал свайпов, только добавление.
type SwipeLog interface {
	Append(ctx context.Context, rec *model.SwipeRecord) error
	// ListBySwiper возвращает журнал свайпов пользователя в порядке добавления.
	ListBySwiper(ctx context.Context, swiperID string) ([]model.SwipeRecord, error)
}

type swipeRepo struct {
	db *gorm.DB
}

func NewSwipeLog(db *gorm.DB) SwipeLog {
	return &swipeRepo{db: db}
}

func (r *swipeRepo) Append(ctx context.Context, rec *model.SwipeRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *swipeRepo) ListBySwiper(ctx context.Context, swiperID string) ([]model.SwipeRecord, error) {
	var recs []model.SwipeRecord
	if err := r.db.WithContext(ctx).Where("swiper_id = ?", swiperID).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
