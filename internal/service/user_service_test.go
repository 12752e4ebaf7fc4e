package service

import (
	"context"
	"io"
	"testing"

	"sharekit/internal/database"
	"sharekit/internal/domain"
	"sharekit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newUserService(repo *mockRepo) *UserService {
	logger := zerolog.New(io.Discard)
	return NewUserService(repo, &logger)
}

func TestUserServiceCreate(t *testing.T) {
	repo := new(mockRepo)
	svc := newUserService(repo)
	ctx := context.Background()

	user := &models.User{Name: "Аня", Email: "anya@example.com"}
	repo.On("CreateUser", ctx, user).Return(nil).Once()

	got, err := svc.Create(ctx, user)
	assert.NoError(t, err)
	assert.Equal(t, user, got)

	repo.On("CreateUser", ctx, user).Return(database.ErrEmailTaken).Once()
	_, err = svc.Create(ctx, user)
	assert.ErrorIs(t, err, database.ErrEmailTaken)

	repo.AssertExpectations(t)
}

func TestUserServiceUpdate(t *testing.T) {
	repo := new(mockRepo)
	svc := newUserService(repo)
	ctx := context.Background()

	stored := &models.User{ID: 1, Name: "Аня", Email: "anya@example.com"}

	t.Run("blank fields keep old values", func(t *testing.T) {
		repo.On("GetUserByID", ctx, int64(1)).Return(stored, nil).Once()
		repo.On("UpdateUser", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

		blank := ""
		email := "new@example.com"
		got, err := svc.Update(ctx, 1, domain.UserPatch{Name: &blank, Email: &email})
		assert.NoError(t, err)
		assert.Equal(t, "Аня", got.Name)
		assert.Equal(t, "new@example.com", got.Email)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo.On("GetUserByID", ctx, int64(9)).Return(nil, database.ErrUserNotFound).Once()

		_, err := svc.Update(ctx, 9, domain.UserPatch{})
		assert.ErrorIs(t, err, database.ErrUserNotFound)
	})

	repo.AssertExpectations(t)
}

func TestUserServicePassthrough(t *testing.T) {
	repo := new(mockRepo)
	svc := newUserService(repo)
	ctx := context.Background()

	users := []*models.User{{ID: 1}, {ID: 2}}
	repo.On("GetAllUsers", ctx).Return(users, nil).Once()
	repo.On("GetUserByID", ctx, int64(1)).Return(users[0], nil).Once()
	repo.On("DeleteUser", ctx, int64(2)).Return(nil).Once()

	got, err := svc.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, users, got)

	user, err := svc.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, users[0], user)

	assert.NoError(t, svc.Delete(ctx, 2))
	repo.AssertExpectations(t)
}
