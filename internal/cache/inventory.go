package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix  = "user:%d"
	PostKeyPrefix  = "post:%d"
	TokenKeyPrefix = "token:%s"
)

const (
	UserTTL = 5 * time.Minute
	PostTTL = 30 * time.Minute
	// Tokens are revoked explicitly at logout; the TTL only bounds staleness
	// if an invalidation is lost.
	TokenTTL = 15 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func TokenKey(key string) string {
	return fmt.Sprintf(TokenKeyPrefix, key)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateToken(ctx context.Context, key string) {
	Invalidate(ctx, TokenKey(key))
}
