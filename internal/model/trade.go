package model

import "time"

// TradeStatus — статус сделки.
type TradeStatus string

const (
	TradePending   TradeStatus = "pending"
	TradeCompleted TradeStatus = "completed"
)

// Trade связывает предметы, участвующие в обмене.
type Trade struct {
	ID             string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ItemIDs        []string    `gorm:"serializer:json;type:text;not null" json:"item_ids"`
	ParticipantIDs []string    `gorm:"serializer:json;type:text;not null" json:"participant_ids"`
	Status         TradeStatus `gorm:"type:varchar(16);not null;default:pending" json:"status"`
	CreatedAt      time.Time   `gorm:"autoCreateTime" json:"created_at"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty"`
}

// HasParticipant сообщает, участвует ли пользователь в сделке.
func (t Trade) HasParticipant(userID string) bool {
	for _, id := range t.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}
