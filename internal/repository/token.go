package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"blogapi/internal/cache"
	"blogapi/internal/models"

	"gorm.io/gorm"
)

// TokenRepository is the keyed store mapping opaque token keys to users.
// There is at most one live token per user; GetOrCreate re-issues the
// existing key on repeated logins.
type TokenRepository interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.AuthToken, bool, error)
	GetUserIDByKey(ctx context.Context, key string) (uint, error)
	DeleteByUserID(ctx context.Context, userID uint) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new TokenRepository implementation.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// generateKey produces a 40-character hex token key.
func generateKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (r *tokenRepository) GetOrCreate(ctx context.Context, userID uint) (*models.AuthToken, bool, error) {
	var token models.AuthToken
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&token).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		key, keyErr := generateKey()
		if keyErr != nil {
			return keyErr
		}
		token = models.AuthToken{Key: key, UserID: userID}
		if createErr := tx.Create(&token).Error; createErr != nil {
			// A concurrent login may have inserted first; fall back to the
			// winning row.
			if isUniqueConstraintError(createErr) {
				return tx.Where("user_id = ?", userID).First(&token).Error
			}
			return createErr
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, models.NewInternalError(err)
	}
	return &token, created, nil
}

func (r *tokenRepository) GetUserIDByKey(ctx context.Context, key string) (uint, error) {
	if key == "" {
		return 0, models.NewUnauthorizedError("Invalid token.")
	}

	var userIDStr string
	cacheKey := cache.TokenKey(key)
	err := cache.Aside(ctx, cacheKey, &userIDStr, cache.TokenTTL, func() error {
		var token models.AuthToken
		if err := r.db.WithContext(ctx).Where("key = ?", key).First(&token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewUnauthorizedError("Invalid token.")
			}
			return models.NewInternalError(err)
		}
		userIDStr = strconv.FormatUint(uint64(token.UserID), 10)
		return nil
	})
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		return 0, models.NewUnauthorizedError("Invalid token.")
	}
	return uint(userID), nil
}

func (r *tokenRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	var token models.AuthToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nothing to delete; logout is unconditional.
			return nil
		}
		return models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Delete(&token).Error; err != nil {
		return models.NewInternalError(err)
	}
	// Drop the cached lookup so the key can never authenticate again.
	cache.InvalidateToken(ctx, token.Key)
	return nil
}
