package service

import (
	"Trades/internal/model"
	"Trades/internal/repo"
	"context"
	"encoding/binary"
	"errors"
	"sort"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Directory — справочник предметов и пользователей для построения списка чатов.
// Ненайденные записи возвращают false.
type Directory interface {
	ItemByID(id string) (model.Item, bool)
	ItemsByOwner(ownerID string) []model.Item
	UserByID(id string) (model.UserProfile, bool)
}

// FailureReporter — необязательное расширение Directory: число сбоев хранилища,
// которые справочник выдал за "не найдено". Результат с такими сбоями не кэшируется.
type FailureReporter interface {
	Failures() int
}

func directoryFailures(dir Directory) int {
	if r, ok := dir.(FailureReporter); ok {
		return r.Failures()
	}
	return 0
}

type conversationEntry struct {
	counterpart model.UserProfile
	anchor      string
	last        *model.Message
}

// DeriveConversations строит список переписок: по одной записи на собеседника.
// Сначала собеседники из мэтчей, затем собеседники только с историей сообщений.
// Сортировка по времени последнего сообщения по убыванию, записи без сообщений в конце,
// при равенстве сохраняется порядок обнаружения. Висячие ссылки пропускаются.
func DeriveConversations(userID string, matchIDs []string, history []model.Message, dir Directory) []model.Conversation {
	entries := make([]*conversationEntry, 0)
	byUser := make(map[string]*conversationEntry)
	skipped := make(map[string]struct{})

	add := func(counterpartID, anchor string) {
		if counterpartID == "" || counterpartID == userID {
			return
		}
		if _, ok := byUser[counterpartID]; ok {
			return
		}
		if _, ok := skipped[counterpartID]; ok {
			return
		}
		profile, ok := dir.UserByID(counterpartID)
		if !ok {
			skipped[counterpartID] = struct{}{}
			return
		}
		e := &conversationEntry{counterpart: profile, anchor: anchor}
		byUser[counterpartID] = e
		entries = append(entries, e)
	}

	for _, itemID := range matchIDs {
		it, ok := dir.ItemByID(itemID)
		if !ok {
			continue
		}
		add(it.OwnerID, it.ID)
	}

	for _, msg := range history {
		if msg.SenderID != userID && msg.RecipientID != userID {
			continue
		}
		cp := msg.Counterpart(userID)
		if _, ok := byUser[cp]; ok {
			continue
		}
		if _, ok := skipped[cp]; ok || cp == userID {
			continue
		}
		anchor := ""
		if owned := dir.ItemsByOwner(cp); len(owned) > 0 {
			anchor = owned[0].ID
		}
		add(cp, anchor)
	}

	for i := range history {
		msg := &history[i]
		if msg.SenderID != userID && msg.RecipientID != userID {
			continue
		}
		e, ok := byUser[msg.Counterpart(userID)]
		if !ok {
			continue
		}
		if e.last == nil || !msg.CreatedAt.Before(e.last.CreatedAt) {
			m := *msg
			e.last = &m
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].last, entries[j].last
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})

	out := make([]model.Conversation, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.Conversation{
			Counterpart:  e.counterpart,
			LastMessage:  e.last,
			AnchorItemID: e.anchor,
		})
	}
	return out
}

// ConversationCache мемоизирует DeriveConversations по хешу входа.
type ConversationCache struct {
	cache *lru.Cache[uint64, []model.Conversation]
}

func NewConversationCache(size int) (*ConversationCache, error) {
	if size <= 0 {
		size = 128
	}
	c, err := lru.New[uint64, []model.Conversation](size)
	if err != nil {
		return nil, err
	}
	return &ConversationCache{cache: c}, nil
}

// Derive возвращает закэшированный результат для того же входа или считает заново.
// Вызывающий получает копию и может её менять.
func (c *ConversationCache) Derive(userID string, matchIDs []string, history []model.Message, dir Directory) []model.Conversation {
	key := conversationKey(userID, matchIDs, history)
	if v, ok := c.cache.Get(key); ok {
		return cloneConversations(v)
	}
	before := directoryFailures(dir)
	v := DeriveConversations(userID, matchIDs, history, dir)
	// неполный из-за сбоя результат не должен пережить восстановление хранилища
	if directoryFailures(dir) == before {
		c.cache.Add(key, v)
	}
	return cloneConversations(v)
}

func (c *ConversationCache) Len() int { return c.cache.Len() }

func cloneConversations(in []model.Conversation) []model.Conversation {
	out := make([]model.Conversation, len(in))
	copy(out, in)
	for i := range out {
		if out[i].LastMessage != nil {
			m := *out[i].LastMessage
			out[i].LastMessage = &m
		}
	}
	return out
}

func conversationKey(userID string, matchIDs []string, history []model.Message) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeStr := func(s string) {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}
	writeStr(userID)
	binary.LittleEndian.PutUint64(buf[:], uint64(len(matchIDs)))
	_, _ = d.Write(buf[:])
	for _, id := range matchIDs {
		writeStr(id)
	}
	for _, m := range history {
		writeStr(m.ID)
		binary.LittleEndian.PutUint64(buf[:], uint64(m.CreatedAt.UnixNano()))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// catalogDirectory — Directory поверх репозиториев на один вызов Conversations.
// Ошибки хранилища считаются "не найдено" и подсчитываются в failures.
type catalogDirectory struct {
	ctx      context.Context
	catalog  repo.CatalogRepository
	users    repo.UserRepository
	logger   *zap.SugaredLogger
	failures int
}

func (d *catalogDirectory) ItemByID(id string) (model.Item, bool) {
	it, err := d.catalog.GetItemByID(d.ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			d.failures++
			d.logger.Warnw("item lookup failed", "item_id", id, "error", err)
		}
		return model.Item{}, false
	}
	return *it, true
}

func (d *catalogDirectory) ItemsByOwner(ownerID string) []model.Item {
	items, err := d.catalog.ItemsByOwner(d.ctx, ownerID)
	if err != nil {
		d.failures++
		d.logger.Warnw("owner items lookup failed", "owner_id", ownerID, "error", err)
		return nil
	}
	return items
}

func (d *catalogDirectory) UserByID(id string) (model.UserProfile, bool) {
	u, err := d.users.GetUserByID(d.ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			d.failures++
			d.logger.Warnw("user lookup failed", "user_id", id, "error", err)
		}
		return model.UserProfile{}, false
	}
	return u.Profile(), true
}

func (d *catalogDirectory) Failures() int { return d.failures }
