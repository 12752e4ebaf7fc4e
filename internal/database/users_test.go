package database

import (
	"context"
	"testing"

	"sharekit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	createTestUser(t, db, "Ivan", "ivan@example.com")

	dup := &models.User{Name: "Другой Иван", Email: "ivan@example.com"}
	err := db.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestGetUserByID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	created := createTestUser(t, db, "Ivan", "ivan@example.com")

	got, err := db.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Ivan", got.Name)
	assert.Equal(t, "ivan@example.com", got.Email)

	_, err = db.GetUserByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Ivan", "ivan@example.com")
	other := createTestUser(t, db, "Petr", "petr@example.com")

	user.Name = "Ivan Updated"
	user.Email = "ivan.updated@example.com"
	require.NoError(t, db.UpdateUser(ctx, user))

	got, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ivan Updated", got.Name)
	assert.Equal(t, "ivan.updated@example.com", got.Email)

	// Почту другого пользователя занять нельзя
	other.Email = "ivan.updated@example.com"
	assert.ErrorIs(t, db.UpdateUser(ctx, other), ErrEmailTaken)

	missing := &models.User{ID: 9999, Name: "Ghost", Email: "ghost@example.com"}
	assert.ErrorIs(t, db.UpdateUser(ctx, missing), ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Ivan", "ivan@example.com")
	require.NoError(t, db.DeleteUser(ctx, user.ID))

	_, err := db.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, db.DeleteUser(ctx, user.ID), ErrUserNotFound)
}

func TestGetAllUsers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	createTestUser(t, db, "Ivan", "ivan@example.com")
	createTestUser(t, db, "Petr", "petr@example.com")

	users, err := db.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ivan", users[0].Name)
	assert.Equal(t, "Petr", users[1].Name)
}
