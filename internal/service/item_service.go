package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sharekit/internal/database"
	"sharekit/internal/domain"
	"sharekit/internal/events"
	"sharekit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	// Ссылка на несуществующую заявку не мешает публикации вещи
	if item.RequestID != 0 {
		if _, err := s.repo.GetRequestByID(ctx, item.RequestID); err != nil {
			if !errors.Is(err, database.ErrRequestNotFound) {
				return nil, err
			}
			item.RequestID = 0
		}
	}

	item.OwnerID = ownerID
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		if err := s.eventBus.PublishJSON(events.EventItemCreated, item); err != nil {
			s.logger.Error().Err(err).Int64("item_id", item.ID).Msg("publish event error")
		}
	}

	return item, nil
}

func (s *ItemService) Update(ctx context.Context, ownerID, itemID int64, patch domain.ItemPatch) (*models.Item, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: item %d", database.ErrNotOwner, itemID)
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		item.Name = *patch.Name
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) != "" {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// GetByID возвращает вещь с комментариями; блоки last/next видит
// только владелец.
func (s *ItemService) GetByID(ctx context.Context, userID, itemID int64) (*domain.ItemDetails, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	details := &domain.ItemDetails{Item: item}

	if item.OwnerID == userID {
		if err := s.attachBookings(ctx, details); err != nil {
			return nil, err
		}
	}

	comments, err := s.repo.GetCommentsByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	details.Comments = comments

	return details, nil
}

func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64, from, size int) ([]*domain.ItemDetails, error) {
	offset, limit, err := normalizePage(from, size)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.GetItemsByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.ItemDetails, 0, len(items))
	for _, item := range items {
		details := &domain.ItemDetails{Item: item}
		if err := s.attachBookings(ctx, details); err != nil {
			return nil, err
		}

		comments, err := s.repo.GetCommentsByItemID(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		details.Comments = comments

		result = append(result, details)
	}

	return result, nil
}

// Search ищет доступные вещи по подстроке в названии или описании.
// Пустой запрос сразу возвращает пустой список.
func (s *ItemService) Search(ctx context.Context, text string, from, size int) ([]*models.Item, error) {
	offset, limit, err := normalizePage(from, size)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return []*models.Item{}, nil
	}

	return s.repo.SearchItems(ctx, strings.ToLower(text), offset, limit)
}

func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", database.ErrCommentNotAllowed)
	}

	if _, err := s.repo.GetUserByID(ctx, authorID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return nil, err
	}

	ok, err := s.repo.HasPastBooking(ctx, authorID, itemID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %d, item %d", database.ErrCommentNotAllowed, authorID, itemID)
	}

	comment := &models.Comment{
		Text:     text,
		ItemID:   itemID,
		AuthorID: authorID,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		payload := events.CommentEventPayload{
			CommentID:  comment.ID,
			ItemID:     comment.ItemID,
			ItemName:   comment.ItemName,
			AuthorID:   comment.AuthorID,
			AuthorName: comment.AuthorName,
		}
		if err := s.eventBus.PublishJSON(events.EventCommentAdded, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}

	return comment, nil
}

func (s *ItemService) attachBookings(ctx context.Context, details *domain.ItemDetails) error {
	now := time.Now()

	last, err := s.repo.GetLastBookingForItem(ctx, details.Item.ID, now)
	if err != nil {
		return err
	}
	details.LastBooking = last

	next, err := s.repo.GetNextBookingForItem(ctx, details.Item.ID, now)
	if err != nil {
		return err
	}
	details.NextBooking = next

	return nil
}
