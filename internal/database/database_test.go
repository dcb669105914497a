package database

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestPersistentModelsMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(PersistentModels()...))

	for _, table := range []string{"users", "auth_tokens", "blog_posts", "likes"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestCustomGormLogger_LogMode(t *testing.T) {
	base := &CustomGormLogger{
		logger: slog.Default(),
		Config: logger.Config{LogLevel: logger.Warn},
	}

	raised := base.LogMode(logger.Info)
	require.IsType(t, &CustomGormLogger{}, raised)
	assert.Equal(t, logger.Info, raised.(*CustomGormLogger).Config.LogLevel)
	// The original is unchanged
	assert.Equal(t, logger.Warn, base.Config.LogLevel)
}

func TestCustomGormLogger_TraceSilent(t *testing.T) {
	l := &CustomGormLogger{
		logger: slog.Default(),
		Config: logger.Config{LogLevel: logger.Silent},
	}

	// Must not panic or call fc when silent
	called := false
	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		called = true
		return "SELECT 1", 1
	}, nil)
	assert.False(t, called)
}
