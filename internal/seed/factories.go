// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"blogapi/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password assigned to every seeded user.
const DefaultPassword = "demo-password-1"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a user with a generated username and the default
// password. A uuid suffix keeps usernames unique across repeated runs.
func (f *Factory) CreateUser() (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	username := fmt.Sprintf("%s_%s",
		strings.ToLower(gofakeit.Username()),
		uuid.New().String()[:8])

	user := &models.User{
		Username: username,
		Email:    gofakeit.Email(),
		Password: string(hashed),
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a post authored by the given user with a realistic
// created_at spread over the past maxDays days.
func (f *Factory) CreatePost(author *models.User, maxDays int) (*models.BlogPost, error) {
	if maxDays <= 0 {
		maxDays = 90
	}

	post := &models.BlogPost{
		Title:    gofakeit.Sentence(5),
		Content:  gofakeit.Paragraph(1, 3, 5, "\n"),
		AuthorID: author.ID,
	}

	daysBack := f.rnd.Intn(maxDays)
	hoursBack := f.rnd.Intn(24)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// LikePost records a like from user on post; duplicates are ignored.
func (f *Factory) LikePost(user *models.User, post *models.BlogPost) error {
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Like{UserID: user.ID, PostID: post.ID}).Error
}
