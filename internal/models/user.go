// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account. The password column stores a bcrypt
// hash, never the plaintext.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"unique;not null" json:"username"`
	Email     string     `json:"email,omitempty"`
	Password  string     `gorm:"not null" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Posts     []BlogPost `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"posts,omitempty"`
}
