package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAggregator() (*RatingAggregator, *memSnapshots) {
	snaps := newMemSnapshots()
	return NewRatingAggregator(snaps, &syncQueue{}, zap.NewNop().Sugar()), snaps
}

func TestRatingAggregator_AverageRounding(t *testing.T) {
	a, _ := newTestAggregator()

	assert.Equal(t, Rating{Average: 0, Count: 0}, a.GetRating("none"))

	require.NoError(t, a.SetRating("two", "u1", 4))
	require.NoError(t, a.SetRating("two", "u2", 5))
	assert.Equal(t, Rating{Average: 4.5, Count: 2}, a.GetRating("two"))

	require.NoError(t, a.SetRating("one", "u1", 3))
	assert.Equal(t, Rating{Average: 3.0, Count: 1}, a.GetRating("one"))

	// 4+4+5 = 13/3 = 4.333.. -> 4.3
	require.NoError(t, a.SetRating("three", "u1", 4))
	require.NoError(t, a.SetRating("three", "u2", 4))
	require.NoError(t, a.SetRating("three", "u3", 5))
	assert.Equal(t, Rating{Average: 4.3, Count: 3}, a.GetRating("three"))
}

func TestRatingAggregator_ReRatingReplaces(t *testing.T) {
	a, _ := newTestAggregator()

	require.NoError(t, a.SetRating("item", "u1", 5))
	require.NoError(t, a.SetRating("item", "u1", 3))

	stars, ok := a.GetUserRating("item", "u1")
	assert.True(t, ok)
	assert.Equal(t, 3, stars)
	assert.Equal(t, Rating{Average: 3.0, Count: 1}, a.GetRating("item"))

	_, ok = a.GetUserRating("item", "u2")
	assert.False(t, ok)
}

func TestRatingAggregator_TwoUsers(t *testing.T) {
	a, _ := newTestAggregator()

	require.NoError(t, a.SetRating("item", "u1", 5))
	require.NoError(t, a.SetRating("item", "u2", 3))
	assert.Equal(t, Rating{Average: 4.0, Count: 2}, a.GetRating("item"))
}

func TestRatingAggregator_RejectsInvalidInput(t *testing.T) {
	a, snaps := newTestAggregator()

	for _, s := range []int{0, -1, 6, 100} {
		assert.ErrorIs(t, a.SetRating("item", "u1", s), ErrInvalidStars, "stars=%d", s)
	}
	assert.ErrorIs(t, a.SetRating("", "u1", 3), ErrEmptyItemID)
	assert.ErrorIs(t, a.SetRating("item", "", 3), ErrNoUser)

	assert.Equal(t, Rating{}, a.GetRating("item"))
	assert.Equal(t, 0, snaps.saves)
}

// Тест: после любой последовательности оценок total == сумме записей, count == их числу
func TestRatingAggregator_AggregateConsistency(t *testing.T) {
	a, _ := newTestAggregator()
	rnd := rand.New(rand.NewSource(42))

	want := map[string]map[string]int{}
	for i := 0; i < 500; i++ {
		itemID := fmt.Sprintf("i%d", rnd.Intn(5))
		userID := fmt.Sprintf("u%d", rnd.Intn(8))
		stars := 1 + rnd.Intn(5)
		require.NoError(t, a.SetRating(itemID, userID, stars))
		if want[itemID] == nil {
			want[itemID] = map[string]int{}
		}
		want[itemID][userID] = stars
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	for itemID, users := range want {
		total := 0
		for _, s := range users {
			total += s
		}
		assert.Equal(t, total, a.byItem[itemID].TotalStars, itemID)
		assert.Equal(t, len(users), a.byItem[itemID].Count, itemID)
	}
}

func TestRatingAggregator_SnapshotRoundTrip(t *testing.T) {
	a, snaps := newTestAggregator()
	require.NoError(t, a.SetRating("item", "u1", 5))
	require.NoError(t, a.SetRating("item", "u2", 2))
	require.NoError(t, a.SetRating("other", "u1", 4))
	assert.Equal(t, 3, snaps.saves)

	var snap map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(snaps.data[RatingsSnapshotKey], &snap))
	assert.Contains(t, snap, "byItem")
	assert.Contains(t, snap, "byUserAndItem")

	loaded, err := LoadRatingAggregator(context.Background(), snaps, &syncQueue{}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, Rating{Average: 3.5, Count: 2}, loaded.GetRating("item"))
	stars, ok := loaded.GetUserRating("other", "u1")
	assert.True(t, ok)
	assert.Equal(t, 4, stars)
}

func TestLoadRatingAggregator_RebuildsAggregatesFromEntries(t *testing.T) {
	snaps := newMemSnapshots()
	// агрегат в снапшоте не совпадает с записями, звёзды вне диапазона отбрасываются
	snaps.data[RatingsSnapshotKey] = []byte(`{
		"byItem": {"item": {"totalStars": 99, "count": 7}},
		"byUserAndItem": {"item": {"u1": 4, "u2": 2, "u3": 9}}
	}`)

	a, err := LoadRatingAggregator(context.Background(), snaps, &syncQueue{}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, Rating{Average: 3.0, Count: 2}, a.GetRating("item"))

	snaps.data[RatingsSnapshotKey] = []byte(`garbage`)
	a, err = LoadRatingAggregator(context.Background(), snaps, &syncQueue{}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, Rating{}, a.GetRating("item"))
}

func TestLoadRatingAggregator_LoadErrorKeepsSnapshot(t *testing.T) {
	a, snaps := newTestAggregator()
	require.NoError(t, a.SetRating("i1", "u1", 5))
	require.NoError(t, a.SetRating("i1", "u2", 3))
	require.NoError(t, a.SetRating("i2", "u1", 4))

	snaps.loadErr = errStoreDown
	broken, err := LoadRatingAggregator(context.Background(), snaps, &syncQueue{}, zap.NewNop().Sugar())
	require.ErrorIs(t, err, errStoreDown)
	assert.Nil(t, broken)

	snaps.loadErr = nil
	a, err = LoadRatingAggregator(context.Background(), snaps, &syncQueue{}, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.NoError(t, a.SetRating("i3", "u9", 1))

	fresh, err := LoadRatingAggregator(context.Background(), snaps, &syncQueue{}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, Rating{Average: 4.0, Count: 2}, fresh.GetRating("i1"))
	assert.Equal(t, Rating{Average: 4.0, Count: 1}, fresh.GetRating("i2"))
	assert.Equal(t, Rating{Average: 1.0, Count: 1}, fresh.GetRating("i3"))
}
