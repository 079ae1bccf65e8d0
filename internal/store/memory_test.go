package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"auth-fabric/internal/model"
)

func TestMemoryCreateAndFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	created, err := m.Create(ctx, model.User{
		Username:     "alice",
		PasswordHash: "$2a$12$hash",
		Email:        "alice@example.com",
		Authorities:  []string{"ROLE_USER"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.Equal(t, int64(1), created.Version)

	byUsername, err := m.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, created, byUsername)

	byID, err := m.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, byID)

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		found, err := m.FindByUsername(ctx, "  ALICE ")
		require.NoError(t, err)
		require.Equal(t, created.ID, found.ID)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, err := m.Create(ctx, model.User{Username: "Alice", PasswordHash: "x", Email: "other@example.com"})
		require.ErrorIs(t, err, model.ErrUserAlreadyExists)
	})

	t.Run("ids increase monotonically", func(t *testing.T) {
		second, err := m.Create(ctx, model.User{Username: "bob", PasswordHash: "x", Email: "bob@example.com"})
		require.NoError(t, err)
		require.Equal(t, int64(2), second.ID)
	})
}

func TestMemoryExists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	exists, err := m.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	require.False(t, exists)

	_, err = m.Create(ctx, model.User{Username: "alice", PasswordHash: "x", Email: "alice@example.com"})
	require.NoError(t, err)

	exists, err = m.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestMemoryUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	created, err := m.Create(ctx, model.User{Username: "alice", PasswordHash: "x", Email: "alice@example.com"})
	require.NoError(t, err)

	t.Run("bumps the version", func(t *testing.T) {
		created.Authorities = []string{"ROLE_ADMIN"}
		updated, err := m.Update(ctx, created)
		require.NoError(t, err)
		require.Equal(t, int64(2), updated.Version)
		require.Equal(t, []string{"ROLE_ADMIN"}, updated.Authorities)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		stale := created
		stale.Version = 1
		_, err := m.Update(ctx, stale)
		require.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := m.Update(ctx, model.User{ID: 999, Version: 1})
		require.ErrorIs(t, err, model.ErrUserNotFound)
	})
}

func TestMemoryDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	created, err := m.Create(ctx, model.User{Username: "alice", PasswordHash: "x", Email: "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, created.ID))
	require.ErrorIs(t, m.Delete(ctx, created.ID), model.ErrUserNotFound)

	_, err = m.FindByUsername(ctx, "alice")
	require.ErrorIs(t, err, model.ErrUserNotFound)

	t.Run("username becomes available again", func(t *testing.T) {
		_, err := m.Create(ctx, model.User{Username: "alice", PasswordHash: "x", Email: "alice@example.com"})
		require.NoError(t, err)
	})
}
