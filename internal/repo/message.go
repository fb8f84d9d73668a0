package repo

import (
	"Trades/internal/model"
	"context"

	"gorm.io/gorm"
)

// MessageRepository — история сообщений чата.
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	// ListForUser возвращает все сообщения, где пользователь отправитель или получатель, по возрастанию времени.
	ListForUser(ctx context.Context, userID string) ([]model.Message, error)
	// ListConversation возвращает переписку по её идентификатору, по возрастанию времени.
	ListConversation(ctx context.Context, conversationID string) ([]model.Message, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepo) ListForUser(ctx context.Context, userID string) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at").Order("id").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *messageRepo) ListConversation(ctx context.Context, conversationID string) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at").Order("id").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
