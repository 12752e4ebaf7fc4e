package domain

import (
	"context"
	"time"

	"sharekit/internal/models"
)

type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error

	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemsByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string, offset, limit int) ([]*models.Item, error)
	GetItemsByRequestID(ctx context.Context, requestID int64) ([]*models.Item, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	DecideBooking(ctx context.Context, bookingID, ownerID int64, approved bool) error
	GetBookingsByBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, offset, limit int) ([]*models.Booking, error)
	GetBookingsByOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, offset, limit int) ([]*models.Booking, error)
	GetLastBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	GetNextBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	HasPastBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItemID(ctx context.Context, itemID int64) ([]*models.Comment, error)

	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
	GetRequestsFromOthers(ctx context.Context, requesterID int64, offset, limit int) ([]*models.ItemRequest, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RateLimitRepository хранит счетчики частоты запросов.
type RateLimitRepository interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// ExportWorker принимает задачи на выгрузку отчетов.
type ExportWorker interface {
	EnqueueReport(ctx context.Context, start, end time.Time) error
}

type BookingService interface {
	Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error)
	GetByID(ctx context.Context, requesterID, bookingID int64) (*models.Booking, error)
	ListByBooker(ctx context.Context, bookerID int64, state models.BookingState, from, size int) ([]*models.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state models.BookingState, from, size int) ([]*models.Booking, error)
	SetApproval(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error)
	LastBookingFor(ctx context.Context, itemID int64) (*models.Booking, error)
	NextBookingFor(ctx context.Context, itemID int64) (*models.Booking, error)
	HasPastBookingFor(ctx context.Context, userID, itemID int64) (bool, error)
}

type ItemService interface {
	Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, ownerID, itemID int64, patch ItemPatch) (*models.Item, error)
	GetByID(ctx context.Context, userID, itemID int64) (*ItemDetails, error)
	ListByOwner(ctx context.Context, ownerID int64, from, size int) ([]*ItemDetails, error)
	Search(ctx context.Context, text string, from, size int) ([]*models.Item, error)
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error)
}

type UserService interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id int64, patch UserPatch) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type RequestService interface {
	Create(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error)
	GetByID(ctx context.Context, userID, requestID int64) (*RequestDetails, error)
	ListOwn(ctx context.Context, requesterID int64) ([]*RequestDetails, error)
	ListFromOthers(ctx context.Context, requesterID int64, from, size int) ([]*RequestDetails, error)
}

// ItemPatch описывает частичное обновление вещи; nil-поле оставляет
// прежнее значение.
type ItemPatch struct {
	Name        *string
	Description *string
	Available   *bool
}

// UserPatch описывает частичное обновление пользователя.
type UserPatch struct {
	Name  *string
	Email *string
}

// ItemDetails — вещь вместе с комментариями и, для владельца,
// последним и ближайшим бронированиями.
type ItemDetails struct {
	Item        *models.Item
	LastBooking *models.Booking
	NextBooking *models.Booking
	Comments    []*models.Comment
}

// RequestDetails — заявка вместе с вещами, выставленными по ней.
type RequestDetails struct {
	Request *models.ItemRequest
	Items   []*models.Item
}
