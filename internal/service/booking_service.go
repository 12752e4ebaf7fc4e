package service

import (
	"context"
	"fmt"
	"time"

	"sharekit/internal/database"
	"sharekit/internal/domain"
	"sharekit/internal/events"
	"sharekit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo         domain.Repository
	eventBus     domain.EventPublisher
	exportWorker domain.ExportWorker
	logger       *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, exportWorker domain.ExportWorker, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:         repo,
		eventBus:     eventBus,
		exportWorker: exportWorker,
		logger:       logger,
	}
}

// ValidateTimeRange отклоняет интервалы, начинающиеся в прошлом или
// не раньше собственного конца.
func (s *BookingService) ValidateTimeRange(start, end time.Time) error {
	now := time.Now()
	if start.Before(now) {
		return fmt.Errorf("%w: start is in the past", database.ErrInvalidTimeRange)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start must precede end", database.ErrInvalidTimeRange)
	}
	return nil
}

func (s *BookingService) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	if err := s.ValidateTimeRange(start, end); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    start,
		End:      end,
	}

	// Все проверки доступности и владения выполняются в одной транзакции
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, booking)
	s.enqueueReport(ctx, booking)

	return booking, nil
}

func (s *BookingService) GetByID(ctx context.Context, requesterID, bookingID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.BookerID == requesterID {
		return booking, nil
	}

	item, err := s.repo.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != requesterID {
		return nil, fmt.Errorf("%w: booking %d", database.ErrAccessDenied, bookingID)
	}

	return booking, nil
}

func (s *BookingService) ListByBooker(ctx context.Context, bookerID int64, state models.BookingState, from, size int) ([]*models.Booking, error) {
	offset, limit, err := normalizePage(from, size)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByID(ctx, bookerID); err != nil {
		return nil, err
	}

	return s.repo.GetBookingsByBooker(ctx, bookerID, state, time.Now(), offset, limit)
}

func (s *BookingService) ListByOwner(ctx context.Context, ownerID int64, state models.BookingState, from, size int) ([]*models.Booking, error) {
	offset, limit, err := normalizePage(from, size)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	return s.repo.GetBookingsByOwner(ctx, ownerID, state, time.Now(), offset, limit)
}

func (s *BookingService) SetApproval(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error) {
	if err := s.repo.DecideBooking(ctx, bookingID, ownerID, approved); err != nil {
		return nil, err
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	eventType := events.EventBookingApproved
	if !approved {
		eventType = events.EventBookingRejected
	}
	s.publishEvent(eventType, booking)
	s.enqueueReport(ctx, booking)

	return booking, nil
}

func (s *BookingService) LastBookingFor(ctx context.Context, itemID int64) (*models.Booking, error) {
	return s.repo.GetLastBookingForItem(ctx, itemID, time.Now())
}

func (s *BookingService) NextBookingFor(ctx context.Context, itemID int64) (*models.Booking, error) {
	return s.repo.GetNextBookingForItem(ctx, itemID, time.Now())
}

func (s *BookingService) HasPastBookingFor(ctx context.Context, userID, itemID int64) (bool, error) {
	return s.repo.HasPastBooking(ctx, userID, itemID, time.Now())
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:  booking.ID,
		BookerID:   booking.BookerID,
		BookerName: booking.BookerName,
		ItemID:     booking.ItemID,
		ItemName:   booking.ItemName,
		Status:     booking.Status,
		Start:      booking.Start,
		End:        booking.End,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueReport(ctx context.Context, booking *models.Booking) {
	if s.exportWorker == nil {
		return
	}

	if err := s.exportWorker.EnqueueReport(ctx, booking.Start, booking.End); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("report enqueue error")
	}
}
