package model

import "time"

// Direction — направление завершённого свайпа.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Valid сообщает, что направление известно.
func (d Direction) Valid() bool {
	return d == DirectionLeft || d == DirectionRight
}

// SwipeRecord — запись журнала свайпов. Только добавление, без изменений.
type SwipeRecord struct {
	ID           string    `gorm:"primaryKey;type:varchar(26)" json:"id"` // ULID
	SwiperID     string    `gorm:"not null;index" json:"swiper_id"`
	TargetItemID string    `gorm:"not null;index" json:"target_item_id"`
	Direction    Direction `gorm:"type:varchar(8);not null" json:"direction"`
	CreatedAt    time.Time `json:"created_at"`
}
