package models

import "time"

// Like is a row in the likes join table between users and blog posts.
// The combination of UserID and PostID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	User User     `gorm:"foreignKey:UserID" json:"-"`
	Post BlogPost `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}
