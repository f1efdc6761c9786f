package migration

import (
	"context"
	"testing"

	"github.com/pixelfit/backend/internal/entity"
	"github.com/pixelfit/backend/pkg/logger"
	"github.com/pixelfit/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestContext(t *testing.T) context.Context {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	ctx := context.Background()
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	return xcontext.WithDB(ctx, db)
}

func Test_Migrate_FreshDatabase(t *testing.T) {
	ctx := newTestContext(t)
	require.NoError(t, Migrate(ctx))

	migrator := xcontext.DB(ctx).Migrator()
	require.True(t, migrator.HasTable("users"))
	require.True(t, migrator.HasTable("sessions"))
	require.True(t, migrator.HasTable("oauth_states"))
	require.True(t, migrator.HasTable("migrations"))

	var last entity.Migration
	err := xcontext.DB(ctx).Order("version desc").Take(&last).Error
	require.NoError(t, err)
	require.Equal(t, len(chain)-1, last.Version)
}

func Test_Migrate_Idempotent(t *testing.T) {
	ctx := newTestContext(t)
	require.NoError(t, Migrate(ctx))

	db := xcontext.DB(ctx)
	user := entity.User{Email: "alice@example.com", Provider: entity.ProviderLocal}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, Migrate(ctx))

	var count int64
	require.NoError(t, db.Model(&entity.User{}).Count(&count).Error)
	require.Equal(t, int64(1), count)

	var applied int64
	require.NoError(t, db.Model(&entity.Migration{}).Count(&applied).Error)
	require.Equal(t, int64(len(chain)), applied)
}

func Test_Migrate_LegacyUsersTable(t *testing.T) {
	ctx := newTestContext(t)
	db := xcontext.DB(ctx)

	// The shape the first password-only release created.
	require.NoError(t, db.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			username TEXT NOT NULL UNIQUE,
			gender TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			auth_provider TEXT NOT NULL DEFAULT 'local',
			google_sub TEXT UNIQUE,
			password_hash TEXT NOT NULL,
			salt TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`).Error)
	require.NoError(t, db.Exec(`
		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`).Error)

	require.NoError(t, db.Exec(`
		INSERT INTO users (name, username, gender, email, auth_provider, google_sub, password_hash, salt)
		VALUES ('Alice', 'alice', 'female', 'alice@example.com', 'google', 'sub-1', 'digest', 'abcd')`).Error)

	require.NoError(t, Migrate(ctx))

	var user entity.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").Take(&user).Error)
	require.Equal(t, "google", user.Provider)
	require.Equal(t, "sub-1", user.ProviderSub.String)
	require.Equal(t, "alice", user.Username.String)
	require.Equal(t, "digest", user.PasswordHash.String)

	// Password columns are nullable now; a google-only account can exist.
	googleOnly := entity.User{
		Email:    "bob@example.com",
		Provider: entity.ProviderGoogle,
	}
	require.NoError(t, db.Create(&googleOnly).Error)

	// The rebuilt sessions table carries the expiry column.
	require.True(t, db.Migrator().HasColumn(&entity.Session{}, "expires_at"))

	// Replaying the chain leaves the upgraded table alone.
	require.NoError(t, Migrate(ctx))
	var count int64
	require.NoError(t, db.Model(&entity.User{}).Count(&count).Error)
	require.Equal(t, int64(2), count)
}
