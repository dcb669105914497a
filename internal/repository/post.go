package repository

import (
	"context"
	"errors"

	"blogapi/internal/cache"
	"blogapi/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for blog post data operations.
// Owned* lookups are scoped by author: a post owned by someone else is
// indistinguishable from a missing one.
type PostRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.BlogPost, error)
	GetOwnedByID(ctx context.Context, id uint, authorID uint) (*models.BlogPost, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.BlogPost, error)
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, userID, postID uint) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.BlogPost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID is cached per post. Every caller resolves a post as its author, so
// the cached liked flag is always the author's view; mutations and like
// toggles drop the key.
func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.BlogPost, error) {
	var post models.BlogPost
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
			First(&post, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetOwnedByID(ctx context.Context, id uint, authorID uint) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.applyPostDetails(r.db.WithContext(ctx), authorID).
		Where("author_id = ?", authorID).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.BlogPost, error) {
	var posts []*models.BlogPost
	err := r.applyPostDetails(r.db.WithContext(ctx), authorID).
		Where("author_id = ?", authorID).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch the likes count and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "blog_posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = blog_posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = blog_posts.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *postRepository) Update(ctx context.Context, post *models.BlogPost) error {
	// Only title and content are mutable; author and created_at stay fixed.
	err := r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title":   post.Title,
			"content": post.Content,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BlogPost{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// ToggleLike flips the caller's membership in the post's likes set inside a
// single transaction, so two concurrent toggles by the same user cannot leave
// a duplicate or phantom row. Returns true when the post ends up liked.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.BlogPost
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", postID)
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Like{}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			liked = false
			return tx.Where("user_id = ? AND post_id = ?", userID, postID).
				Delete(&models.Like{}).Error
		}

		liked = true
		// ON CONFLICT DO NOTHING absorbs the duplicate-insert race across users.
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{UserID: userID, PostID: postID}).Error
	})
	if err != nil {
		if models.IsNotFound(err) {
			return false, err
		}
		return false, models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return liked, nil
}
