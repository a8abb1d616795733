package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shortshare/internal/server/storage"
)

func TestUserStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user, err := s.CreateUser(ctx, "admin", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "admin", user.Username)
	assert.True(t, user.IsAdmin)

	retrieved, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, retrieved)
}

func TestUserStorage_CreateUser_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.CreateUser(ctx, "duplicate", "hash1", false)
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "duplicate", "hash2", false)
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
}

func TestUserStorage_GetUserByUsername(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	created, err := s.CreateUser(ctx, "findme", "hash123", false)
	require.NoError(t, err)

	tests := []struct {
		wantErr  error
		name     string
		username string
	}{
		{name: "existing user", username: "findme"},
		{name: "unknown user", username: "nobody", wantErr: storage.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := s.GetUserByUsername(ctx, tt.username)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, user.ID)
			assert.Equal(t, "hash123", user.PasswordHash)
			assert.False(t, user.IsAdmin)
		})
	}
}

func TestUserStorage_DeleteUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	created, err := s.CreateUser(ctx, "shortlived", "hash", false)
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, created.ID))

	_, err = s.GetUserByID(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	err = s.DeleteUser(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
