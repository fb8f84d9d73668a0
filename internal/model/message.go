package model

import (
	"sort"
	"strings"
	"time"
)

// Message — сообщение чата между двумя пользователями.
type Message struct {
	ID             string    `gorm:"primaryKey;type:varchar(26)" json:"id"` // ULID
	ConversationID string    `gorm:"not null;index" json:"conversation_id"`
	SenderID       string    `gorm:"not null;index" json:"sender_id"`
	RecipientID    string    `gorm:"not null;index" json:"recipient_id"`
	Text           string    `gorm:"not null" json:"text"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// ConversationID строит идентификатор переписки, не зависящий от порядка участников.
func ConversationID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// Counterpart возвращает второго участника переписки относительно userID.
func (m Message) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.RecipientID
	}
	return m.SenderID
}

// Conversation — производная запись списка чатов, в БД не хранится.
type Conversation struct {
	Counterpart  UserProfile `json:"counterpart"`
	LastMessage  *Message    `json:"last_message"`
	AnchorItemID string      `json:"anchor_item_id"`
}
