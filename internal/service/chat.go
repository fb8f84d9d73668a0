package service

import (
	"Trades/internal/model"
	"Trades/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChatService — сообщения между пользователями и список переписок.
type ChatService struct {
	messages repo.MessageRepository
	users    repo.UserRepository
	catalog  repo.CatalogRepository
	cache    *ConversationCache
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewChatService(
	messages repo.MessageRepository,
	users repo.UserRepository,
	catalog repo.CatalogRepository,
	cache *ConversationCache,
	logger *zap.SugaredLogger,
) *ChatService {
	return &ChatService{
		messages: messages,
		users:    users,
		catalog:  catalog,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// SendMessage сохраняет сообщение от from к to.
func (s *ChatService) SendMessage(ctx context.Context, from, to, text string) (*model.Message, error) {
	if from == "" {
		return nil, ErrNoUser
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if from == to {
		return nil, ErrSelfMessage
	}
	if _, err := s.users.GetUserByID(ctx, to); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup recipient: %w", err)
	}

	msg := &model.Message{
		ID:             ulid.Make().String(),
		ConversationID: model.ConversationID(from, to),
		SenderID:       from,
		RecipientID:    to,
		Text:           text,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	return msg, nil
}

// Messages возвращает переписку двух пользователей по возрастанию времени.
func (s *ChatService) Messages(ctx context.Context, userID, otherID string) ([]model.Message, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	return s.messages.ListConversation(ctx, model.ConversationID(userID, otherID))
}

// Conversations строит список чатов из мэтчей и истории.
// Недоступная история деградирует до списка только по мэтчам.
func (s *ChatService) Conversations(ctx context.Context, userID string, matchIDs []string) ([]model.Conversation, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	history, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		s.logger.Warnw("message history unavailable, deriving from matches only", "user_id", userID, "error", err)
		history = nil
	}
	dir := &catalogDirectory{ctx: ctx, catalog: s.catalog, users: s.users, logger: s.logger}
	if s.cache == nil {
		return DeriveConversations(userID, matchIDs, history, dir), nil
	}
	return s.cache.Derive(userID, matchIDs, history, dir), nil
}
