package model

import "time"

// User — учётная запись пользователя. ID непрозрачен для ядра.
type User struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Login       string `gorm:"uniqueIndex;not null"`
	Password    string `gorm:"not null"` // bcrypt hash
	DisplayName string `gorm:"not null"`
	AvatarURL   string
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// UserProfile — публичная часть пользователя, которую видит собеседник.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Profile возвращает публичный профиль пользователя.
func (u User) Profile() UserProfile {
	return UserProfile{ID: u.ID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}
