package service

import (
	"Trades/internal/metrics"
	"Trades/internal/model"
	"Trades/internal/repo"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Session — состояние одного пользователя: колода, фильтр, просмотренные предметы и мэтчи.
// Создаётся при входе, уничтожается при выходе или простое.
type Session struct {
	UserID  string
	Matches *MatchStore

	mu         sync.Mutex
	deck       []model.Item
	filter     DeckFilter
	seen       map[string]struct{}
	generation uint64
	lastActive time.Time
}

// Deck возвращает копию текущей колоды и её фильтр.
func (s *Session) Deck() ([]model.Item, DeckFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Item, len(s.deck))
	copy(out, s.deck)
	return out, s.filter
}

// Sessions — реестр сессий по user id.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session

	builder   *DeckBuilder
	resolver  *SwipeResolver
	catalog   repo.CatalogRepository
	snapshots repo.SnapshotStore
	queue     Dispatcher
	logger    *zap.SugaredLogger
	now       func() time.Time
}

func NewSessions(
	builder *DeckBuilder,
	resolver *SwipeResolver,
	catalog repo.CatalogRepository,
	snapshots repo.SnapshotStore,
	queue Dispatcher,
	logger *zap.SugaredLogger,
) *Sessions {
	return &Sessions{
		sessions:  make(map[string]*Session),
		builder:   builder,
		resolver:  resolver,
		catalog:   catalog,
		snapshots: snapshots,
		queue:     queue,
		logger:    logger,
		now:       time.Now,
	}
}

// Open возвращает сессию пользователя, создавая её и загружая снапшот мэтчей при первом обращении.
func (ss *Sessions) Open(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	ss.mu.Lock()
	if s, ok := ss.sessions[userID]; ok {
		ss.mu.Unlock()
		ss.touch(s)
		return s, nil
	}
	ss.mu.Unlock()

	// снапшот читаем вне общей блокировки; сначала дописываем то, что
	// закрытая сессия этого пользователя ещё держит в очереди
	if err := ss.queue.Flush(ctx); err != nil {
		return nil, fmt.Errorf("flush pending snapshots: %w", err)
	}
	matches, err := LoadMatchStore(ctx, userID, ss.snapshots, ss.queue, ss.logger)
	if err != nil {
		return nil, err
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	if s, ok := ss.sessions[userID]; ok {
		ss.touch(s)
		return s, nil
	}
	s := &Session{
		UserID:     userID,
		Matches:    matches,
		seen:       make(map[string]struct{}),
		lastActive: ss.now(),
	}
	ss.sessions[userID] = s
	metrics.SetActiveSessions(len(ss.sessions))
	ss.logger.Infow("session opened", "user_id", userID, "matches", len(matches.IDs()))
	return s, nil
}

// Get возвращает открытую сессию без создания.
func (ss *Sessions) Get(userID string) (*Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.sessions[userID]
	return s, ok
}

// Close забывает состояние сессии в памяти. Сохранённые снапшоты остаются.
func (ss *Sessions) Close(userID string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if _, ok := ss.sessions[userID]; !ok {
		return false
	}
	delete(ss.sessions, userID)
	metrics.SetActiveSessions(len(ss.sessions))
	ss.logger.Infow("session closed", "user_id", userID)
	return true
}

// EvictIdle закрывает сессии, неактивные дольше maxIdle. Возвращает число закрытых.
func (ss *Sessions) EvictIdle(maxIdle time.Duration) int {
	cutoff := ss.now().Add(-maxIdle)

	ss.mu.Lock()
	defer ss.mu.Unlock()
	n := 0
	for id, s := range ss.sessions {
		s.mu.Lock()
		idle := s.lastActive.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(ss.sessions, id)
			n++
		}
	}
	if n > 0 {
		metrics.SetActiveSessions(len(ss.sessions))
	}
	return n
}

// Len — число открытых сессий.
func (ss *Sessions) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

func (ss *Sessions) touch(s *Session) {
	s.mu.Lock()
	s.lastActive = ss.now()
	s.mu.Unlock()
}

// RefreshDeck пересобирает колоду под фильтр. Побеждает последний начатый запрос:
// если за время выборки началась другая пересборка, результат отбрасывается с ErrDeckSuperseded.
func (ss *Sessions) RefreshDeck(ctx context.Context, userID string, filter DeckFilter) ([]model.Item, error) {
	s, err := ss.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	seen := make(map[string]struct{}, len(s.seen))
	for id := range s.seen {
		seen[id] = struct{}{}
	}
	s.mu.Unlock()

	items, err := ss.builder.BuildDeck(ctx, userID, filter, seen)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		metrics.RecordDeckBuild("superseded")
		return nil, ErrDeckSuperseded
	}
	// свайпы, сделанные во время выборки, тоже исключаются
	deck := make([]model.Item, 0, len(items))
	for _, it := range items {
		if _, ok := s.seen[it.ID]; !ok {
			deck = append(deck, it)
		}
	}
	s.deck = deck
	s.filter = filter
	out := make([]model.Item, len(deck))
	copy(out, deck)
	return out, nil
}

// Swipe применяет свайп к голове колоды сессии.
func (ss *Sessions) Swipe(ctx context.Context, userID string, dir model.Direction) (SwipeResult, error) {
	s, err := ss.Open(ctx, userID)
	if err != nil {
		return SwipeResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := ss.resolver.Resolve(userID, s.deck, dir)
	if err != nil {
		return res, err
	}
	s.seen[res.Record.TargetItemID] = struct{}{}
	s.deck = res.Next
	out := make([]model.Item, len(res.Next))
	copy(out, res.Next)
	res.Next = out
	return res, nil
}

// ConfirmMatch фиксирует мэтч после показа подтверждения.
func (ss *Sessions) ConfirmMatch(ctx context.Context, userID, itemID string) (bool, error) {
	if itemID == "" {
		return false, ErrEmptyItemID
	}
	s, err := ss.Open(ctx, userID)
	if err != nil {
		return false, err
	}
	it, err := ss.catalog.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrItemNotFound
		}
		return false, err
	}
	if it.OwnerID == userID {
		return false, ErrOwnItem
	}
	return s.Matches.AddMatch(itemID), nil
}

// Unmatch удаляет мэтч; отсутствующий id — no-op.
func (ss *Sessions) Unmatch(ctx context.Context, userID, itemID string) (bool, error) {
	s, err := ss.Open(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.Matches.RemoveMatch(itemID), nil
}

// MatchIDs возвращает набор мэтчей пользователя.
func (ss *Sessions) MatchIDs(ctx context.Context, userID string) ([]string, error) {
	s, err := ss.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Matches.IDs(), nil
}
