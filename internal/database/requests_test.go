package database

import (
	"context"
	"testing"

	"sharekit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetRequest(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	requester := createTestUser(t, db, "Requester", "requester@example.com")

	request := &models.ItemRequest{Description: "Нужна дрель", RequesterID: requester.ID}
	require.NoError(t, db.CreateRequest(ctx, request))
	assert.NotZero(t, request.ID)

	got, err := db.GetRequestByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "Нужна дрель", got.Description)
	assert.Equal(t, requester.ID, got.RequesterID)

	_, err = db.GetRequestByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestGetRequestsByRequester(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	requester := createTestUser(t, db, "Requester", "requester@example.com")
	other := createTestUser(t, db, "Other", "other@example.com")

	first := &models.ItemRequest{Description: "первая", RequesterID: requester.ID}
	require.NoError(t, db.CreateRequest(ctx, first))
	second := &models.ItemRequest{Description: "вторая", RequesterID: requester.ID}
	require.NoError(t, db.CreateRequest(ctx, second))
	foreign := &models.ItemRequest{Description: "чужая", RequesterID: other.ID}
	require.NoError(t, db.CreateRequest(ctx, foreign))

	own, err := db.GetRequestsByRequester(ctx, requester.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, second.ID, own[0].ID)
	assert.Equal(t, first.ID, own[1].ID)

	others, err := db.GetRequestsFromOthers(ctx, requester.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, foreign.ID, others[0].ID)

	paged, err := db.GetRequestsFromOthers(ctx, other.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, first.ID, paged[0].ID)
}
