package auth

import (
	"testing"
	"time"

	"github.com/cleannest/api-marketplace/internal/user"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database. The pool is capped at one
// connection so every goroutine sees the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&user.User{}, &RefreshToken{}))
	return db
}

func testConfig() Config {
	return Config{
		Secret:     []byte("test-signing-key"),
		Issuer:     "cleannest-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		ResetTTL:   time.Hour,
	}
}

func newTestService(t *testing.T) (*gorm.DB, *Service) {
	t.Helper()
	db := newTestDB(t)
	return db, NewService(testConfig(), NewStore(), user.NewRepository())
}
