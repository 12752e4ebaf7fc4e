package service

import (
	"context"
	"io"
	"testing"
	"time"

	"sharekit/internal/database"
	"sharekit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockRepo) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}
func (m *mockRepo) UpdateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockRepo) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) CreateItem(ctx context.Context, i *models.Item) error {
	return m.Called(ctx, i).Error(0)
}
func (m *mockRepo) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}
func (m *mockRepo) UpdateItem(ctx context.Context, i *models.Item) error {
	return m.Called(ctx, i).Error(0)
}
func (m *mockRepo) GetItemsByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Item, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}
func (m *mockRepo) SearchItems(ctx context.Context, text string, offset, limit int) ([]*models.Item, error) {
	args := m.Called(ctx, text, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}
func (m *mockRepo) GetItemsByRequestID(ctx context.Context, requestID int64) ([]*models.Item, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}
func (m *mockRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockRepo) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockRepo) DecideBooking(ctx context.Context, bookingID, ownerID int64, approved bool) error {
	return m.Called(ctx, bookingID, ownerID, approved).Error(0)
}
func (m *mockRepo) GetBookingsByBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, offset, limit int) ([]*models.Booking, error) {
	args := m.Called(ctx, bookerID, state, now, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) GetBookingsByOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, offset, limit int) ([]*models.Booking, error) {
	args := m.Called(ctx, ownerID, state, now, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) GetLastBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	args := m.Called(ctx, itemID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockRepo) GetNextBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	args := m.Called(ctx, itemID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockRepo) HasPastBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	args := m.Called(ctx, bookerID, itemID, now)
	return args.Bool(0), args.Error(1)
}
func (m *mockRepo) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) CreateComment(ctx context.Context, c *models.Comment) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockRepo) GetCommentsByItemID(ctx context.Context, itemID int64) ([]*models.Comment, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}
func (m *mockRepo) CreateRequest(ctx context.Context, r *models.ItemRequest) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockRepo) GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemRequest), args.Error(1)
}
func (m *mockRepo) GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ItemRequest), args.Error(1)
}
func (m *mockRepo) GetRequestsFromOthers(ctx context.Context, requesterID int64, offset, limit int) ([]*models.ItemRequest, error) {
	args := m.Called(ctx, requesterID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ItemRequest), args.Error(1)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(et string, p interface{}) error { return m.Called(et, p).Error(0) }

type mockExportWorker struct {
	mock.Mock
}

func (m *mockExportWorker) EnqueueReport(ctx context.Context, start, end time.Time) error {
	return m.Called(ctx, start, end).Error(0)
}

func TestBookingServiceValidateTimeRange(t *testing.T) {
	logger := zerolog.New(io.Discard)
	svc := NewBookingService(new(mockRepo), nil, nil, &logger)

	now := time.Now()

	err := svc.ValidateTimeRange(now.Add(-time.Hour), now.Add(time.Hour))
	assert.ErrorIs(t, err, database.ErrInvalidTimeRange)

	err = svc.ValidateTimeRange(now.Add(2*time.Hour), now.Add(time.Hour))
	assert.ErrorIs(t, err, database.ErrInvalidTimeRange)

	err = svc.ValidateTimeRange(now.Add(time.Hour), now.Add(time.Hour))
	assert.ErrorIs(t, err, database.ErrInvalidTimeRange)

	err = svc.ValidateTimeRange(now.Add(time.Hour), now.Add(2*time.Hour))
	assert.NoError(t, err)
}

func TestBookingServiceCreate(t *testing.T) {
	repo := new(mockRepo)
	bus := new(mockEventBus)
	worker := new(mockExportWorker)
	logger := zerolog.New(io.Discard)
	svc := NewBookingService(repo, bus, worker, &logger)
	ctx := context.Background()

	start := time.Now().Add(time.Hour)
	end := start.Add(24 * time.Hour)

	repo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).Return(nil).Once()
	bus.On("PublishJSON", "booking_created", mock.Anything).Return(nil).Once()
	worker.On("EnqueueReport", ctx, start, end).Return(nil).Once()

	booking, err := svc.Create(ctx, 2, 1, start, end)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), booking.ItemID)
	assert.Equal(t, int64(2), booking.BookerID)
	repo.AssertExpectations(t)
	bus.AssertExpectations(t)
	worker.AssertExpectations(t)
}

func TestBookingServiceCreateInvalidRange(t *testing.T) {
	repo := new(mockRepo)
	logger := zerolog.New(io.Discard)
	svc := NewBookingService(repo, nil, nil, &logger)

	start := time.Now().Add(-time.Hour)
	_, err := svc.Create(context.Background(), 2, 1, start, start.Add(time.Hour))
	assert.ErrorIs(t, err, database.ErrInvalidTimeRange)

	// До репозитория дело дойти не должно
	repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBookingServiceGetByID(t *testing.T) {
	repo := new(mockRepo)
	logger := zerolog.New(io.Discard)
	svc := NewBookingService(repo, nil, nil, &logger)
	ctx := context.Background()

	booking := &models.Booking{ID: 5, ItemID: 1, BookerID: 2}
	item := &models.Item{ID: 1, OwnerID: 3}

	t.Run("booker sees own booking", func(t *testing.T) {
		repo.On("GetBooking", ctx, int64(5)).Return(booking, nil).Once()

		got, err := svc.GetByID(ctx, 2, 5)
		assert.NoError(t, err)
		assert.Equal(t, booking, got)
	})

	t.Run("owner sees booking of own item", func(t *testing.T) {
		repo.On("GetBooking", ctx, int64(5)).Return(booking, nil).Once()
		repo.On("GetItemByID", ctx, int64(1)).Return(item, nil).Once()

		got, err := svc.GetByID(ctx, 3, 5)
		assert.NoError(t, err)
		assert.Equal(t, booking, got)
	})

	t.Run("stranger denied", func(t *testing.T) {
		repo.On("GetBooking", ctx, int64(5)).Return(booking, nil).Once()
		repo.On("GetItemByID", ctx, int64(1)).Return(item, nil).Once()

		_, err := svc.GetByID(ctx, 99, 5)
		assert.ErrorIs(t, err, database.ErrAccessDenied)
	})

	repo.AssertExpectations(t)
}

func TestBookingServiceListByBooker(t *testing.T) {
	repo := new(mockRepo)
	logger := zerolog.New(io.Discard)
	svc := NewBookingService(repo, nil, nil, &logger)
	ctx := context.Background()

	t.Run("invalid pagination", func(t *testing.T) {
		_, err := svc.ListByBooker(ctx, 2, models.StateAll, -1, 10)
		assert.ErrorIs(t, err, database.ErrInvalidPagination)

		_, err = svc.ListByBooker(ctx, 2, models.StateAll, 0, 0)
		assert.ErrorIs(t, err, database.ErrInvalidPagination)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo.On("GetUserByID", ctx, int64(2)).Return(nil, database.ErrUserNotFound).Once()

		_, err := svc.ListByBooker(ctx, 2, models.StateAll, 0, 10)
		assert.ErrorIs(t, err, database.ErrUserNotFound)
	})

	t.Run("passes offset and limit through", func(t *testing.T) {
		bookings := []*models.Booking{{ID: 1}, {ID: 2}}
		repo.On("GetUserByID", ctx, int64(2)).Return(&models.User{ID: 2}, nil).Once()
		repo.On("GetBookingsByBooker", ctx, int64(2), models.StateFuture, mock.AnythingOfType("time.Time"), 5, 10).Return(bookings, nil).Once()

		got, err := svc.ListByBooker(ctx, 2, models.StateFuture, 5, 10)
		assert.NoError(t, err)
		assert.Equal(t, bookings, got)
	})

	repo.AssertExpectations(t)
}

func TestBookingServiceListByOwner(t *testing.T) {
	repo := new(mockRepo)
	logger := zerolog.New(io.Discard)
	svc := NewBookingService(repo, nil, nil, &logger)
	ctx := context.Background()

	bookings := []*models.Booking{{ID: 3}}
	repo.On("GetUserByID", ctx, int64(7)).Return(&models.User{ID: 7}, nil).Once()
	repo.On("GetBookingsByOwner", ctx, int64(7), models.StateWaiting, mock.AnythingOfType("time.Time"), 0, 10).Return(bookings, nil).Once()

	got, err := svc.ListByOwner(ctx, 7, models.StateWaiting, 0, 10)
	assert.NoError(t, err)
	assert.Equal(t, bookings, got)
	repo.AssertExpectations(t)
}

func TestBookingServiceSetApproval(t *testing.T) {
	repo := new(mockRepo)
	bus := new(mockEventBus)
	logger := zerolog.New(io.Discard)
	svc := NewBookingService(repo, bus, nil, &logger)
	ctx := context.Background()

	t.Run("approve publishes booking_approved", func(t *testing.T) {
		booking := &models.Booking{ID: 5, Status: models.StatusApproved}
		repo.On("DecideBooking", ctx, int64(5), int64(1), true).Return(nil).Once()
		repo.On("GetBooking", ctx, int64(5)).Return(booking, nil).Once()
		bus.On("PublishJSON", "booking_approved", mock.Anything).Return(nil).Once()

		got, err := svc.SetApproval(ctx, 1, 5, true)
		assert.NoError(t, err)
		assert.Equal(t, models.StatusApproved, got.Status)
	})

	t.Run("reject publishes booking_rejected", func(t *testing.T) {
		booking := &models.Booking{ID: 6, Status: models.StatusRejected}
		repo.On("DecideBooking", ctx, int64(6), int64(1), false).Return(nil).Once()
		repo.On("GetBooking", ctx, int64(6)).Return(booking, nil).Once()
		bus.On("PublishJSON", "booking_rejected", mock.Anything).Return(nil).Once()

		got, err := svc.SetApproval(ctx, 1, 6, false)
		assert.NoError(t, err)
		assert.Equal(t, models.StatusRejected, got.Status)
	})

	t.Run("repeat decision propagates error", func(t *testing.T) {
		repo.On("DecideBooking", ctx, int64(5), int64(1), true).Return(database.ErrAlreadyDecided).Once()

		_, err := svc.SetApproval(ctx, 1, 5, true)
		assert.ErrorIs(t, err, database.ErrAlreadyDecided)
	})

	repo.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestBookingServiceItemBookings(t *testing.T) {
	repo := new(mockRepo)
	logger := zerolog.New(io.Discard)
	svc := NewBookingService(repo, nil, nil, &logger)
	ctx := context.Background()

	last := &models.Booking{ID: 1}
	next := &models.Booking{ID: 2}

	repo.On("GetLastBookingForItem", ctx, int64(4), mock.AnythingOfType("time.Time")).Return(last, nil).Once()
	repo.On("GetNextBookingForItem", ctx, int64(4), mock.AnythingOfType("time.Time")).Return(next, nil).Once()
	repo.On("HasPastBooking", ctx, int64(2), int64(4), mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	gotLast, err := svc.LastBookingFor(ctx, 4)
	assert.NoError(t, err)
	assert.Equal(t, last, gotLast)

	gotNext, err := svc.NextBookingFor(ctx, 4)
	assert.NoError(t, err)
	assert.Equal(t, next, gotNext)

	ok, err := svc.HasPastBookingFor(ctx, 2, 4)
	assert.NoError(t, err)
	assert.True(t, ok)

	repo.AssertExpectations(t)
}
