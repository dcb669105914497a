package models

import "time"

// AuthToken is an opaque bearer credential. The unique index on UserID keeps
// at most one live token per user; login re-issues the existing key instead of
// minting a second one.
type AuthToken struct {
	Key       string    `gorm:"primaryKey;size:40" json:"key"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (AuthToken) TableName() string {
	return "auth_tokens"
}
