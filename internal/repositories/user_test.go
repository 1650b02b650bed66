package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserRepositories(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	readRepo := NewUserReadRepository(db)
	ctx := context.Background()

	saved, err := writeRepo.Save(ctx, "alice@example.com", "hash123")
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.UserID)
	assert.Equal(t, "alice@example.com", saved.Email)
	assert.Equal(t, "hash123", saved.PasswordHash)
	assert.False(t, saved.CreatedAt.IsZero())

	t.Run("duplicate email", func(t *testing.T) {
		_, err := writeRepo.Save(ctx, "alice@example.com", "otherhash")
		assert.Error(t, err)
	})

	t.Run("GetByEmail found", func(t *testing.T) {
		user, err := readRepo.GetByEmail(ctx, "alice@example.com")
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, saved.UserID, user.UserID)
	})

	t.Run("GetByEmail not found", func(t *testing.T) {
		user, err := readRepo.GetByEmail(ctx, "ghost@example.com")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("GetByID found", func(t *testing.T) {
		user, err := readRepo.GetByID(ctx, saved.UserID)
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		user, err := readRepo.GetByID(ctx, uuid.New())
		assert.NoError(t, err)
		assert.Nil(t, user)
	})
}
