package model

import (
	"strings"
	"time"
)

// ValueTier — грубая ценовая категория предмета для честного обмена.
type ValueTier string

const (
	TierLow  ValueTier = "$"
	TierMid  ValueTier = "$$"
	TierHigh ValueTier = "$$$"
)

// Category — категория предмета для фильтрации колоды.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryClothing    Category = "Clothing"
	CategoryHome        Category = "Home"
	CategorySports      Category = "Sports"
	CategoryBooks       Category = "Books"
	CategoryToys        Category = "Toys"
	CategoryMusic       Category = "Music"
	CategoryArt         Category = "Art"
	CategoryOther       Category = "Other"
)

// Categories возвращает все категории в порядке отображения.
func Categories() []Category {
	return []Category{
		CategoryElectronics, CategoryClothing, CategoryHome, CategorySports,
		CategoryBooks, CategoryToys, CategoryMusic, CategoryArt, CategoryOther,
	}
}

// ItemStatus — статус предмета в каталоге.
type ItemStatus string

const (
	StatusActive ItemStatus = "active"
	StatusTraded ItemStatus = "traded"
)

// Item — серверная модель предмета каталога.
type Item struct {
	ID      string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID string `gorm:"not null;index" json:"owner_id"`

	Title          string    `gorm:"not null" json:"title"`
	Description    string    `json:"description"`
	Photos         []string  `gorm:"serializer:json;type:text" json:"photos"`
	ValueTier      ValueTier `gorm:"type:varchar(8);not null;index" json:"value_tier"`
	Category       Category  `gorm:"type:varchar(32);not null;index" json:"category"`
	PickupLocation string    `json:"pickup_location"`

	// active → traded ровно один раз, при завершении обмена
	Status ItemStatus `gorm:"type:varchar(16);not null;default:active;index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ParseValueTier разбирает значение фильтра. Пустая строка и "all" означают отсутствие ограничения.
func ParseValueTier(s string) (ValueTier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return "", true
	case "$", "low":
		return TierLow, true
	case "$$", "mid":
		return TierMid, true
	case "$$$", "high":
		return TierHigh, true
	}
	return "", false
}

// ParseCategory разбирает категорию без учёта регистра. Пустая строка и "all" — без ограничения.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return "", true
	}
	for _, c := range Categories() {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}
