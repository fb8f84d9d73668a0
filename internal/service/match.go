package service

import (
	"Trades/internal/metrics"
	"Trades/internal/repo"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// MatchSnapshotKey — ключ снапшота набора мэтчей пользователя.
func MatchSnapshotKey(userID string) string {
	return "trades_matches:" + userID
}

// MatchStore — упорядоченный набор id предметов без дублей для одного пользователя.
// Источник истины — память; каждая мутация отправляет полный снапшот в очередь.
type MatchStore struct {
	mu    sync.RWMutex
	ids   []string
	index map[string]struct{}

	key    string
	store  repo.SnapshotStore
	queue  Dispatcher
	logger *zap.SugaredLogger
}

// LoadMatchStore читает снапшот один раз при открытии сессии.
// Отсутствующий или битый снапшот даёт пустой набор, ошибка хранилища возвращается.
func LoadMatchStore(ctx context.Context, userID string, store repo.SnapshotStore, queue Dispatcher, logger *zap.SugaredLogger) (*MatchStore, error) {
	m := &MatchStore{
		index:  make(map[string]struct{}),
		key:    MatchSnapshotKey(userID),
		store:  store,
		queue:  queue,
		logger: logger,
	}

	data, found, err := store.Load(ctx, m.key)
	if err != nil {
		return nil, fmt.Errorf("load match snapshot %s: %w", m.key, err)
	}
	if !found {
		return m, nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		logger.Warnw("match snapshot is malformed, starting empty", "user_id", userID, "error", err)
		return m, nil
	}
	for _, id := range ids {
		if _, dup := m.index[id]; id == "" || dup {
			continue
		}
		m.index[id] = struct{}{}
		m.ids = append(m.ids, id)
	}
	return m, nil
}

// AddMatch добавляет id; повторный вызов ничего не меняет.
func (m *MatchStore) AddMatch(itemID string) bool {
	if itemID == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.index[itemID]; ok {
		return false
	}
	m.index[itemID] = struct{}{}
	m.ids = append(m.ids, itemID)
	metrics.RecordMatchChange("add")
	m.persistLocked()
	return true
}

// RemoveMatch удаляет id; отсутствующий id — no-op.
func (m *MatchStore) RemoveMatch(itemID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.index[itemID]; !ok {
		return false
	}
	delete(m.index, itemID)
	for i, id := range m.ids {
		if id == itemID {
			m.ids = append(m.ids[:i:i], m.ids[i+1:]...)
			break
		}
	}
	metrics.RecordMatchChange("remove")
	m.persistLocked()
	return true
}

// IsMatch сообщает, есть ли id в наборе.
func (m *MatchStore) IsMatch(itemID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.index[itemID]
	return ok
}

// IDs возвращает копию набора в порядке добавления.
func (m *MatchStore) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

func (m *MatchStore) persistLocked() {
	data, err := json.Marshal(m.ids)
	if err != nil {
		m.logger.Errorw("failed to encode match snapshot", "key", m.key, "error", err)
		return
	}
	key, store := m.key, m.store
	m.queue.Submit("matches", func(ctx context.Context) error {
		return store.Save(ctx, key, data)
	})
}
