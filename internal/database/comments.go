package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sharekit/internal/models"
)

// CreateComment сохраняет комментарий, денормализуя имена вещи и автора.
func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var itemName string
	err = tx.QueryRowContext(ctx, `SELECT name FROM items WHERE id = ?`, comment.ItemID).Scan(&itemName)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id=%d", ErrItemNotFound, comment.ItemID)
	}
	if err != nil {
		return fmt.Errorf("failed to check item in tx: %w", err)
	}

	var authorName string
	err = tx.QueryRowContext(ctx, `SELECT name FROM users WHERE id = ?`, comment.AuthorID).Scan(&authorName)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id=%d", ErrUserNotFound, comment.AuthorID)
	}
	if err != nil {
		return fmt.Errorf("failed to check author in tx: %w", err)
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO comments (text, item_id, item_name, author_id, author_name, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		comment.Text,
		comment.ItemID,
		itemName,
		comment.AuthorID,
		authorName,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	comment.ItemName = itemName
	comment.AuthorName = authorName
	comment.CreatedAt = now

	return tx.Commit()
}

func (db *DB) GetCommentsByItemID(ctx context.Context, itemID int64) ([]*models.Comment, error) {
	query := `SELECT id, text, item_id, item_name, author_id, author_name, created_at
              FROM comments WHERE item_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.ItemName, &c.AuthorID, &c.AuthorName, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
