package service

import (
	"Trades/internal/model"
	"Trades/internal/repo"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TradeService — предложение и завершение обмена.
// Завершение переводит предметы в traded, после чего они не попадают в колоды.
type TradeService struct {
	trades  repo.TradeRepository
	catalog repo.CatalogRepository
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewTradeService(trades repo.TradeRepository, catalog repo.CatalogRepository, logger *zap.SugaredLogger) *TradeService {
	return &TradeService{trades: trades, catalog: catalog, logger: logger, now: time.Now}
}

// ProposeTrade создаёт обмен из активных предметов минимум двух владельцев,
// один из которых — вызывающий.
func (s *TradeService) ProposeTrade(ctx context.Context, userID string, itemIDs []string) (*model.Trade, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	ids := make([]string, 0, len(itemIDs))
	seen := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		if _, dup := seen[id]; id == "" || dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) < 2 {
		return nil, ErrTradeTooSmall
	}

	owners := make([]string, 0, 2)
	ownerSet := make(map[string]struct{})
	for _, id := range ids {
		it, err := s.catalog.GetItemByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
			}
			return nil, err
		}
		if it.Status != model.StatusActive {
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, id)
		}
		if _, ok := ownerSet[it.OwnerID]; !ok {
			ownerSet[it.OwnerID] = struct{}{}
			owners = append(owners, it.OwnerID)
		}
	}
	if _, ok := ownerSet[userID]; !ok {
		return nil, ErrNotOwner
	}
	if len(owners) < 2 {
		return nil, ErrSingleOwner
	}

	t := &model.Trade{
		ID:             uuid.NewString(),
		ItemIDs:        ids,
		ParticipantIDs: owners,
		Status:         model.TradePending,
	}
	if err := s.trades.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create trade: %w", err)
	}
	s.logger.Infow("trade proposed", "trade_id", t.ID, "by", userID, "items", len(ids))
	return t, nil
}

// CompleteTrade завершает обмен ровно один раз.
func (s *TradeService) CompleteTrade(ctx context.Context, userID, tradeID string) (*model.Trade, error) {
	t, err := s.trades.GetByID(ctx, tradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	if !t.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}

	done, err := s.trades.Complete(ctx, tradeID, s.now().UTC())
	switch {
	case errors.Is(err, repo.ErrTradeCompleted):
		return nil, ErrTradeCompleted
	case errors.Is(err, repo.ErrItemNotActive):
		return nil, ErrItemUnavailable
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrTradeNotFound
	case err != nil:
		return nil, fmt.Errorf("complete trade: %w", err)
	}
	s.logger.Infow("trade completed", "trade_id", tradeID, "by", userID, "items", done.ItemIDs)
	return done, nil
}
