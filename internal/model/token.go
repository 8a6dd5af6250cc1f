package model

import "time"

// AuthToken binds an opaque bearer key to exactly one user. A user gets a
// single token, created on first login and reused on every later login.
type AuthToken struct {
	Key       string    `json:"key" gorm:"primaryKey;size:40"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at"`
}
