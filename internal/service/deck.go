package service

import (
	"Trades/internal/metrics"
	"Trades/internal/model"
	"Trades/internal/repo"
	"context"

	"go.uber.org/zap"
)

// DeckFilter — фильтр колоды. Пустые поля означают "all".
type DeckFilter struct {
	ValueTier model.ValueTier `json:"value_tier"`
	Category  model.Category  `json:"category"`
}

func (f DeckFilter) matches(it model.Item) bool {
	if f.ValueTier != "" && it.ValueTier != f.ValueTier {
		return false
	}
	if f.Category != "" && it.Category != f.Category {
		return false
	}
	return true
}

// DeckBuilder собирает колоду кандидатов для пользователя.
type DeckBuilder struct {
	catalog repo.CatalogRepository
	logger  *zap.SugaredLogger
	limit   int
}

func NewDeckBuilder(catalog repo.CatalogRepository, logger *zap.SugaredLogger, limit int) *DeckBuilder {
	if limit <= 0 {
		limit = 50
	}
	return &DeckBuilder{catalog: catalog, logger: logger, limit: limit}
}

// BuildDeck возвращает активные чужие предметы под фильтр, исключая seen.
// Порядок задаёт каталог: owner_id, затем created_at по убыванию.
// Недоступный каталог даёт пустую колоду, а не ошибку.
func (b *DeckBuilder) BuildDeck(ctx context.Context, userID string, filter DeckFilter, seen map[string]struct{}) ([]model.Item, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	items, err := b.catalog.QueryItems(ctx, repo.ItemQuery{
		ValueTier:      filter.ValueTier,
		Category:       filter.Category,
		Status:         model.StatusActive,
		ExcludeOwnerID: userID,
		// уже просмотренные отсекаются после выборки, запрашиваем с запасом
		Limit: b.limit + len(seen),
	})
	if err != nil {
		b.logger.Warnw("catalog unavailable, serving empty deck", "user_id", userID, "error", err)
		metrics.RecordDeckBuild("degraded")
		return []model.Item{}, nil
	}

	deck := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.Status != model.StatusActive || it.OwnerID == userID || !filter.matches(it) {
			continue
		}
		if _, ok := seen[it.ID]; ok {
			continue
		}
		deck = append(deck, it)
		if len(deck) == b.limit {
			break
		}
	}
	metrics.RecordDeckBuild("ok")
	return deck, nil
}
