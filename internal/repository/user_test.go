package repository

import (
	"database/sql"
	"testing"

	"github.com/pixelfit/backend/internal/entity"
	"github.com/pixelfit/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_userRepository_UpdateByID(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewUserRepository()

	user := &entity.User{
		Email:        "alice@example.com",
		Provider:     entity.ProviderLocal,
		Name:         "Alice",
		Username:     sql.NullString{Valid: true, String: "alice"},
		Gender:       entity.GenderFemale,
		PasswordHash: sql.NullString{Valid: true, String: "hash"},
		Salt:         sql.NullString{Valid: true, String: "salt"},
	}
	require.NoError(t, repo.Create(ctx, user))

	err := repo.UpdateByID(ctx, user.ID, &entity.User{
		Provider:    entity.ProviderGoogle,
		ProviderSub: sql.NullString{Valid: true, String: "sub-1"},
		AvatarURL:   "https://example.com/pic.png",
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ProviderGoogle, got.Provider)
	require.Equal(t, "sub-1", got.ProviderSub.String)
	require.Equal(t, "https://example.com/pic.png", got.AvatarURL)

	// Fields absent from the update keep their values.
	require.Equal(t, "Alice", got.Name)
	require.Equal(t, "alice", got.Username.String)
	require.True(t, got.HasPassword())

	got, err = repo.GetByProviderSub(ctx, "sub-1")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
}

func Test_userRepository_UsernameExists(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewUserRepository()

	user := &entity.User{
		Email:    "alice@example.com",
		Provider: entity.ProviderLocal,
		Username: sql.NullString{Valid: true, String: "alice"},
	}
	require.NoError(t, repo.Create(ctx, user))

	exists, err := repo.UsernameExists(ctx, "alice", 0)
	require.NoError(t, err)
	require.True(t, exists)

	// The owner does not collide with itself.
	exists, err = repo.UsernameExists(ctx, "alice", user.ID)
	require.NoError(t, err)
	require.False(t, exists)

	exists, err = repo.UsernameExists(ctx, "bob", 0)
	require.NoError(t, err)
	require.False(t, exists)
}
