package repo

import (
	"Trades/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrTradeCompleted — сделка уже завершена.
	ErrTradeCompleted = errors.New("trade already completed")
	// ErrItemNotActive — один из предметов сделки уже обменян.
	ErrItemNotActive = errors.New("item is not active")
)

// TradeRepository — сделки и перевод предметов в статус traded.
type TradeRepository interface {
	Create(ctx context.Context, t *model.Trade) error
	GetByID(ctx context.Context, id string) (*model.Trade, error)
	// Complete в одной транзакции отмечает сделку завершённой и переводит все её предметы active → traded.
	Complete(ctx context.Context, id string, at time.Time) (*model.Trade, error)
}

type tradeRepo struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepo{db: db}
}

func (r *tradeRepo) Create(ctx context.Context, t *model.Trade) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tradeRepo) GetByID(ctx context.Context, id string) (*model.Trade, error) {
	var t model.Trade
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tradeRepo) Complete(ctx context.Context, id string, at time.Time) (*model.Trade, error) {
	var out model.Trade
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, "id = ?", id).Error; err != nil {
			return err
		}
		if out.Status == model.TradeCompleted {
			return ErrTradeCompleted
		}
		res := tx.Model(&model.Item{}).
			Where("id IN ? AND status = ?", out.ItemIDs, model.StatusActive).
			Update("status", model.StatusTraded)
		if res.Error != nil {
			return res.Error
		}
		// переход active → traded допускается только один раз для каждого предмета
		if res.RowsAffected != int64(len(out.ItemIDs)) {
			return ErrItemNotActive
		}
		completedAt := at.UTC()
		if err := tx.Model(&out).Updates(map[string]any{
			"status":       model.TradeCompleted,
			"completed_at": completedAt,
		}).Error; err != nil {
			return err
		}
		out.Status = model.TradeCompleted
		out.CompletedAt = &completedAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
