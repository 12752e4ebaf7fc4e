package service

import (
	"context"

	"sharekit/internal/domain"
	"sharekit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{
		repo:   repo,
		logger: logger,
	}
}

func (s *RequestService) Create(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error) {
	if _, err := s.repo.GetUserByID(ctx, requesterID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: description,
		RequesterID: requesterID,
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func (s *RequestService) GetByID(ctx context.Context, userID, requestID int64) (*domain.RequestDetails, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	return s.withItems(ctx, request)
}

func (s *RequestService) ListOwn(ctx context.Context, requesterID int64) ([]*domain.RequestDetails, error) {
	if _, err := s.repo.GetUserByID(ctx, requesterID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetRequestsByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	return s.collectDetails(ctx, requests)
}

// ListFromOthers показывает чужие заявки, на которые можно откликнуться
// публикацией вещи.
func (s *RequestService) ListFromOthers(ctx context.Context, requesterID int64, from, size int) ([]*domain.RequestDetails, error) {
	offset, limit, err := normalizePage(from, size)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByID(ctx, requesterID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetRequestsFromOthers(ctx, requesterID, offset, limit)
	if err != nil {
		return nil, err
	}

	return s.collectDetails(ctx, requests)
}

func (s *RequestService) withItems(ctx context.Context, request *models.ItemRequest) (*domain.RequestDetails, error) {
	items, err := s.repo.GetItemsByRequestID(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	return &domain.RequestDetails{Request: request, Items: items}, nil
}

func (s *RequestService) collectDetails(ctx context.Context, requests []*models.ItemRequest) ([]*domain.RequestDetails, error) {
	result := make([]*domain.RequestDetails, 0, len(requests))
	for _, request := range requests {
		details, err := s.withItems(ctx, request)
		if err != nil {
			return nil, err
		}
		result = append(result, details)
	}
	return result, nil
}
