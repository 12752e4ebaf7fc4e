package database

import (
	"context"
	"testing"

	"sharekit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetItem(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	item := createTestItem(t, db, owner.ID, "Дрель", true)

	got, err := db.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Дрель", got.Name)
	assert.True(t, got.Available)
	assert.Equal(t, owner.ID, got.OwnerID)
	assert.Zero(t, got.RequestID)

	_, err = db.GetItemByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCreateItemWithRequest(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	requester := createTestUser(t, db, "Requester", "requester@example.com")

	request := &models.ItemRequest{Description: "Нужна дрель", RequesterID: requester.ID}
	require.NoError(t, db.CreateRequest(ctx, request))

	item := &models.Item{
		Name:        "Дрель",
		Description: "Аккумуляторная",
		Available:   true,
		OwnerID:     owner.ID,
		RequestID:   request.ID,
	}
	require.NoError(t, db.CreateItem(ctx, item))

	got, err := db.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, request.ID, got.RequestID)

	answers, err := db.GetItemsByRequestID(ctx, request.ID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, item.ID, answers[0].ID)
}

func TestGetItemsByOwnerPagination(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	other := createTestUser(t, db, "Other", "other@example.com")

	for i := 0; i < 5; i++ {
		createTestItem(t, db, owner.ID, "item", true)
	}
	createTestItem(t, db, other.ID, "foreign", true)

	items, err := db.GetItemsByOwner(ctx, owner.ID, 0, 3)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	items, err = db.GetItemsByOwner(ctx, owner.ID, 3, 3)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// id по возрастанию
	items, err = db.GetItemsByOwner(ctx, owner.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 5)
	for i := 1; i < len(items); i++ {
		assert.Greater(t, items[i].ID, items[i-1].ID)
	}
}

func TestSearchItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")

	drill := &models.Item{Name: "Drill", Description: "Powerful tool", Available: true, OwnerID: owner.ID}
	require.NoError(t, db.CreateItem(ctx, drill))
	hidden := &models.Item{Name: "Drill Pro", Description: "Hidden", Available: false, OwnerID: owner.ID}
	require.NoError(t, db.CreateItem(ctx, hidden))
	hammer := &models.Item{Name: "Hammer", Description: "Heavy drilling hammer", Available: true, OwnerID: owner.ID}
	require.NoError(t, db.CreateItem(ctx, hammer))

	// Совпадение по имени и по описанию, недоступные не попадают
	found, err := db.SearchItems(ctx, "drill", 0, 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, drill.ID, found[0].ID)
	assert.Equal(t, hammer.ID, found[1].ID)

	found, err = db.SearchItems(ctx, "nothing", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestUpdateItem(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	item := createTestItem(t, db, owner.ID, "Дрель", true)

	item.Name = "Дрель аккумуляторная"
	item.Available = false
	require.NoError(t, db.UpdateItem(ctx, item))

	got, err := db.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Дрель аккумуляторная", got.Name)
	assert.False(t, got.Available)

	missing := &models.Item{ID: 9999, Name: "x", Description: "y"}
	assert.ErrorIs(t, db.UpdateItem(ctx, missing), ErrItemNotFound)
}
