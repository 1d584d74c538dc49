package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "foodgram.db"),
	}
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	db, err := Open(openTemp(t), config.Test)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db))
	assert.NoError(t, HealthCheck(context.Background(), db))

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Follow{}, "idx_follows_user_following"))
	assert.True(t, db.Migrator().HasIndex(&models.Favorite{}, "idx_favorites_user_recipe"))
	assert.True(t, db.Migrator().HasIndex(&models.ShoppingCart{}, "idx_shopping_carts_user_recipe"))

	// Migrations are idempotent.
	require.NoError(t, Migrate(db))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql"}, config.Test)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestForeignKeysEnabled(t *testing.T) {
	db, err := Open(openTemp(t), config.Test)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)
}

func TestNewRedisClientDisabled(t *testing.T) {
	client, err := NewRedisClient(config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, client)
}
