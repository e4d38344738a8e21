package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-backend/internal/domain"
	"weather-backend/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))

	user := &domain.User{
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
	}
	id, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Positive(t, id)

	byEmail, err := repo.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", byEmail.Username)
	assert.Equal(t, user.PasswordHash, byEmail.PasswordHash)

	byUsername, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, byUsername.ID)

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", byID.Email)
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))

	_, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "alice@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.User{Username: "alice", Email: "other@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = repo.Create(ctx, &domain.User{Username: "other", Email: "alice@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))

	_, err := repo.GetByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
