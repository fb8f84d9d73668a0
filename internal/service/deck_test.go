package service

import (
	"Trades/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDeckBuilder_FilterByTierExcludesOwnItems(t *testing.T) {
	cat := &fakeCatalog{items: []model.Item{
		item("a", "u1", model.TierMid, model.CategoryBooks, 1),
		item("b", "u2", model.TierMid, model.CategoryMusic, 2),
		item("c", "u3", model.TierMid, model.CategoryHome, 3),
		item("mine1", "me", model.TierMid, model.CategoryBooks, 4),
		item("mine2", "me", model.TierMid, model.CategoryBooks, 5),
		item("cheap", "u1", model.TierLow, model.CategoryBooks, 6),
	}}
	b := NewDeckBuilder(cat, zap.NewNop().Sugar(), 50)

	deck, err := b.BuildDeck(context.Background(), "me", DeckFilter{ValueTier: model.TierMid}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(deck))
}

func TestDeckBuilder_OrderAndFilters(t *testing.T) {
	traded := item("gone", "u1", model.TierLow, model.CategoryArt, 9)
	traded.Status = model.StatusTraded
	cat := &fakeCatalog{items: []model.Item{
		item("u2-old", "u2", model.TierLow, model.CategoryArt, 1),
		item("u1-old", "u1", model.TierLow, model.CategoryArt, 2),
		item("u1-new", "u1", model.TierLow, model.CategoryArt, 3),
		item("u2-new", "u2", model.TierHigh, model.CategoryArt, 4),
		item("toy", "u3", model.TierLow, model.CategoryToys, 5),
		traded,
	}}
	b := NewDeckBuilder(cat, zap.NewNop().Sugar(), 50)
	ctx := context.Background()

	// без фильтра: owner_id, затем новые раньше старых; traded не попадает
	deck, err := b.BuildDeck(ctx, "me", DeckFilter{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1-new", "u1-old", "u2-new", "u2-old", "toy"}, ids(deck))

	deck, err = b.BuildDeck(ctx, "me", DeckFilter{Category: model.CategoryArt, ValueTier: model.TierLow}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1-new", "u1-old", "u2-old"}, ids(deck))

	// повторный вызов с тем же входом — тот же порядок
	again, err := b.BuildDeck(ctx, "me", DeckFilter{Category: model.CategoryArt, ValueTier: model.TierLow}, nil)
	require.NoError(t, err)
	assert.Equal(t, ids(deck), ids(again))
}

func TestDeckBuilder_ExcludesSeenAndRespectsLimit(t *testing.T) {
	cat := &fakeCatalog{items: []model.Item{
		item("a", "u1", model.TierLow, model.CategoryArt, 3),
		item("b", "u1", model.TierLow, model.CategoryArt, 2),
		item("c", "u1", model.TierLow, model.CategoryArt, 1),
	}}
	b := NewDeckBuilder(cat, zap.NewNop().Sugar(), 2)

	deck, err := b.BuildDeck(context.Background(), "me", DeckFilter{}, map[string]struct{}{"a": {}})
	require.NoError(t, err)
	// просмотренный "a" исключён, лимит добирается следующими
	assert.Equal(t, []string{"b", "c"}, ids(deck))
}

func TestDeckBuilder_CatalogDownDegradesToEmpty(t *testing.T) {
	cat := &fakeCatalog{err: errStoreDown}
	b := NewDeckBuilder(cat, zap.NewNop().Sugar(), 50)

	deck, err := b.BuildDeck(context.Background(), "me", DeckFilter{}, nil)
	assert.NoError(t, err)
	assert.NotNil(t, deck)
	assert.Empty(t, deck)
}

func TestDeckBuilder_RequiresUser(t *testing.T) {
	b := NewDeckBuilder(&fakeCatalog{}, zap.NewNop().Sugar(), 50)
	_, err := b.BuildDeck(context.Background(), "", DeckFilter{}, nil)
	assert.ErrorIs(t, err, ErrNoUser)
}
