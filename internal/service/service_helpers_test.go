package service

import (
	"Trades/internal/model"
	"Trades/internal/repo"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

var errStoreDown = errors.New("store down")

// syncQueue выполняет задачи сразу, в вызывающей горутине
type syncQueue struct {
	mu    sync.Mutex
	names []string
}

func (q *syncQueue) Submit(name string, fn func(ctx context.Context) error) bool {
	q.mu.Lock()
	q.names = append(q.names, name)
	q.mu.Unlock()
	_ = fn(context.Background())
	return true
}

func (q *syncQueue) Flush(context.Context) error { return nil }

func (q *syncQueue) count(name string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, s := range q.names {
		if s == name {
			n++
		}
	}
	return n
}

// deferredQueue копит задачи до явного drain, как воркер под нагрузкой
type deferredQueue struct {
	mu      sync.Mutex
	pending []func(ctx context.Context) error
	flushes int
}

func (q *deferredQueue) Submit(_ string, fn func(ctx context.Context) error) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, fn)
	return true
}

func (q *deferredQueue) Flush(ctx context.Context) error {
	q.mu.Lock()
	q.flushes++
	q.mu.Unlock()
	q.drain(ctx)
	return nil
}

func (q *deferredQueue) drain(ctx context.Context) {
	q.mu.Lock()
	tasks := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, fn := range tasks {
		_ = fn(ctx)
	}
}

// memSnapshots — SnapshotStore в памяти
type memSnapshots struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   int
	loadErr error
	saveErr error
}

func newMemSnapshots() *memSnapshots { return &memSnapshots{data: map[string][]byte{}} }

func (s *memSnapshots) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, false, s.loadErr
	}
	b, ok := s.data[key]
	return b, ok, nil
}

func (s *memSnapshots) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data[key] = append([]byte(nil), data...)
	return nil
}

var _ repo.SnapshotStore = (*memSnapshots)(nil)

// fakeCatalog повторяет порядок удалённого каталога: owner_id, затем created_at по убыванию
type fakeCatalog struct {
	mu      sync.Mutex
	items   []model.Item
	err     error
	queries int
	// hook вызывается внутри QueryItems до возврата результата
	hook func()
}

func (c *fakeCatalog) QueryItems(_ context.Context, q repo.ItemQuery) ([]model.Item, error) {
	c.mu.Lock()
	c.queries++
	hook := c.hook
	items := append([]model.Item(nil), c.items...)
	err := c.err
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	var out []model.Item
	for _, it := range items {
		if q.Status != "" && it.Status != q.Status {
			continue
		}
		if q.ExcludeOwnerID != "" && it.OwnerID == q.ExcludeOwnerID {
			continue
		}
		if q.ValueTier != "" && it.ValueTier != q.ValueTier {
			continue
		}
		if q.Category != "" && it.Category != q.Category {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OwnerID != out[j].OwnerID {
			return out[i].OwnerID < out[j].OwnerID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (c *fakeCatalog) ItemsByOwner(_ context.Context, ownerID string) ([]model.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	var out []model.Item
	for _, it := range c.items {
		if it.OwnerID == ownerID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetItemByID(_ context.Context, id string) (*model.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	for _, it := range c.items {
		if it.ID == id {
			cp := it
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (c *fakeCatalog) CreateItem(_ context.Context, it *model.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.items = append(c.items, *it)
	return nil
}

var _ repo.CatalogRepository = (*fakeCatalog)(nil)

// fakeSwipeLog запоминает записи журнала
type fakeSwipeLog struct {
	mu      sync.Mutex
	records []model.SwipeRecord
	err     error
}

func (l *fakeSwipeLog) Append(_ context.Context, rec *model.SwipeRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.records = append(l.records, *rec)
	return nil
}

func (l *fakeSwipeLog) ListBySwiper(_ context.Context, swiperID string) ([]model.SwipeRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.SwipeRecord
	for _, r := range l.records {
		if r.SwiperID == swiperID {
			out = append(out, r)
		}
	}
	return out, nil
}

var _ repo.SwipeLog = (*fakeSwipeLog)(nil)

// fakeUsers — UserRepository поверх map
type fakeUsers struct {
	users map[string]model.User
}

func newFakeUsers(users ...model.User) *fakeUsers {
	f := &fakeUsers{users: map[string]model.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) CreateUser(_ context.Context, u *model.User) (*model.User, error) {
	f.users[u.ID] = *u
	return u, nil
}

func (f *fakeUsers) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	for _, u := range f.users {
		if u.Login == login {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

var _ repo.UserRepository = (*fakeUsers)(nil)

// fakeMessages — MessageRepository в памяти
type fakeMessages struct {
	msgs []model.Message
	err  error
}

func (f *fakeMessages) Create(_ context.Context, m *model.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, *m)
	return nil
}

func (f *fakeMessages) ListForUser(_ context.Context, userID string) ([]model.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Message
	for _, m := range f.msgs {
		if m.SenderID == userID || m.RecipientID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessages) ListConversation(_ context.Context, conversationID string) ([]model.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Message
	for _, m := range f.msgs {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repo.MessageRepository = (*fakeMessages)(nil)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func item(id, owner string, tier model.ValueTier, cat model.Category, minute int) model.Item {
	return model.Item{
		ID:        id,
		OwnerID:   owner,
		Title:     "item " + id,
		ValueTier: tier,
		Category:  cat,
		Status:    model.StatusActive,
		CreatedAt: baseTime.Add(time.Duration(minute) * time.Minute),
	}
}

func ids(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
