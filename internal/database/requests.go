package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sharekit/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `INSERT INTO requests (description, requester_id, created_at) VALUES (?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, request.Description, request.RequesterID, now)
	if err != nil {
		return fmt.Errorf("failed to create item request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	request.CreatedAt = now

	return nil
}

func (db *DB) GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created_at FROM requests WHERE id = ?`

	var r models.ItemRequest
	err := db.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.Description, &r.RequesterID, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", ErrRequestNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item request: %w", err)
	}

	return &r, nil
}

// GetRequestsByRequester возвращает заявки пользователя, новые раньше.
func (db *DB) GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created_at
              FROM requests WHERE requester_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// GetRequestsFromOthers возвращает чужие заявки постранично, новые раньше.
func (db *DB) GetRequestsFromOthers(ctx context.Context, requesterID int64, offset, limit int) ([]*models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created_at
              FROM requests WHERE requester_id != ?
              ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := db.QueryContext(ctx, query, requesterID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get item requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

func collectRequests(rows *sql.Rows) ([]*models.ItemRequest, error) {
	var requests []*models.ItemRequest
	for rows.Next() {
		var r models.ItemRequest
		if err := rows.Scan(&r.ID, &r.Description, &r.RequesterID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item request: %w", err)
		}
		requests = append(requests, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
