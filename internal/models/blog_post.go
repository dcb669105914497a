package models

import "time"

// BlogPost represents a post authored by exactly one user. The author
// reference is set server-side at creation and never changes afterwards.
type BlogPost struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:200;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"not null;index" json:"author"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"-"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the requesting user likes this post (computed)
	Liked     bool      `gorm:"->" json:"liked"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (BlogPost) TableName() string {
	return "blog_posts"
}
