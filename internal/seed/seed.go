package seed

import (
	"fmt"
	"log"

	"blogapi/internal/models"

	"gorm.io/gorm"
)

// Options controls the size of the seeded data set.
type Options struct {
	Users        int
	PostsPerUser int
	MaxDays      int
}

// DefaultOptions returns a small demo-sized data set.
func DefaultOptions() Options {
	return Options{
		Users:        10,
		PostsPerUser: 5,
		MaxDays:      90,
	}
}

// ClearAll removes all seeded rows. Deletion order respects foreign keys.
func ClearAll(db *gorm.DB) error {
	tables := []interface{}{
		&models.Like{},
		&models.BlogPost{},
		&models.AuthToken{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("clear table: %w", err)
		}
	}
	log.Println("Cleared existing data")
	return nil
}

// Run populates the database with demo users, posts, and likes.
func Run(db *gorm.DB, opts Options) error {
	f := NewFactory(db)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}

	posts := make([]*models.BlogPost, 0, opts.Users*opts.PostsPerUser)
	for _, user := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			post, err := f.CreatePost(user, opts.MaxDays)
			if err != nil {
				return fmt.Errorf("seed post: %w", err)
			}
			posts = append(posts, post)
		}
	}

	// Roughly a third of user/post pairs get a like.
	likes := 0
	for _, user := range users {
		for _, post := range posts {
			if f.rnd.Intn(3) == 0 {
				if err := f.LikePost(user, post); err != nil {
					return fmt.Errorf("seed like: %w", err)
				}
				likes++
			}
		}
	}

	log.Printf("Seeded %d users, %d posts, %d likes (password for all users: %q)",
		len(users), len(posts), likes, DefaultPassword)
	return nil
}
