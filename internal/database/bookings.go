package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sharekit/internal/models"
)

const bookingColumns = `b.id, b.item_id, b.item_name, b.booker_id, b.booker_name,
       b.start_date, b.end_date, b.status, b.created_at, b.updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var (
		b        models.Booking
		startRaw string
		endRaw   string
	)
	err := row.Scan(
		&b.ID,
		&b.ItemID,
		&b.ItemName,
		&b.BookerID,
		&b.BookerName,
		&startRaw,
		&endRaw,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if b.Start, err = parseTime(startRaw); err != nil {
		return nil, err
	}
	if b.End, err = parseTime(endRaw); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBooking создает бронирование со статусом WAITING. Проверки
// существования и доступности выполняются внутри одной транзакции.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var (
		itemName  string
		available bool
		ownerID   int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT name, available, owner_id FROM items WHERE id = ?`, booking.ItemID).
		Scan(&itemName, &available, &ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id=%d", ErrItemNotFound, booking.ItemID)
	}
	if err != nil {
		return fmt.Errorf("failed to check item in tx: %w", err)
	}

	if !available {
		return fmt.Errorf("%w: id=%d", ErrItemUnavailable, booking.ItemID)
	}
	if ownerID == booking.BookerID {
		return fmt.Errorf("%w: item id=%d", ErrOwnItemBooking, booking.ItemID)
	}

	var bookerName string
	err = tx.QueryRowContext(ctx, `SELECT name FROM users WHERE id = ?`, booking.BookerID).
		Scan(&bookerName)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id=%d", ErrUserNotFound, booking.BookerID)
	}
	if err != nil {
		return fmt.Errorf("failed to check booker in tx: %w", err)
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (item_id, item_name, booker_id, booker_name, start_date, end_date, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.ItemID,
		itemName,
		booking.BookerID,
		bookerName,
		formatTime(booking.Start),
		formatTime(booking.End),
		models.StatusWaiting,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.ItemName = itemName
	booking.BookerName = bookerName
	booking.Status = models.StatusWaiting
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return tx.Commit()
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = ?`

	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", ErrBookingNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}

// DecideBooking переводит бронирование из WAITING в APPROVED либо REJECTED.
// Решение принимает только владелец вещи. Повторное решение по уже
// терминальной заявке отклоняется: UPDATE защищен условием status = WAITING,
// поэтому из двух конкурентных решений пройдет ровно одно.
func (db *DB) DecideBooking(ctx context.Context, bookingID, ownerID int64, approved bool) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var (
		status      string
		itemOwnerID int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT b.status, i.owner_id FROM bookings b JOIN items i ON i.id = b.item_id WHERE b.id = ?`,
		bookingID).Scan(&status, &itemOwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id=%d", ErrBookingNotFound, bookingID)
	}
	if err != nil {
		return fmt.Errorf("failed to check booking in tx: %w", err)
	}

	if itemOwnerID != ownerID {
		return fmt.Errorf("%w: user id=%d is not the owner of the booked item", ErrAccessDenied, ownerID)
	}
	if status != models.StatusWaiting {
		return fmt.Errorf("%w: booking id=%d has %s status", ErrAlreadyDecided, bookingID, status)
	}

	newStatus := models.StatusRejected
	if approved {
		newStatus = models.StatusApproved
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		newStatus, time.Now(), bookingID, models.StatusWaiting)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		// Конкурентное решение успело раньше.
		return fmt.Errorf("%w: booking id=%d", ErrAlreadyDecided, bookingID)
	}

	return tx.Commit()
}

// stateCondition возвращает SQL-условие классификации бронирования
// относительно момента now.
func stateCondition(state models.BookingState, now time.Time) (string, []any) {
	nowStr := formatTime(now)
	switch state {
	case models.StateCurrent:
		return ` AND b.start_date <= ? AND b.end_date > ?`, []any{nowStr, nowStr}
	case models.StatePast:
		return ` AND b.end_date < ?`, []any{nowStr}
	case models.StateFuture:
		return ` AND b.start_date > ?`, []any{nowStr}
	case models.StateWaiting:
		return ` AND b.status = ?`, []any{models.StatusWaiting}
	case models.StateRejected:
		return ` AND b.status = ?`, []any{models.StatusRejected}
	default: // ALL
		return ``, nil
	}
}

// GetBookingsByBooker возвращает бронирования пользователя, отфильтрованные
// по state, по убыванию даты начала. offset — число пропускаемых строк.
func (db *DB) GetBookingsByBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, offset, limit int) ([]*models.Booking, error) {
	cond, condArgs := stateCondition(state, now)
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.booker_id = ?` + cond +
		` ORDER BY b.start_date DESC LIMIT ? OFFSET ?`

	args := append([]any{bookerID}, condArgs...)
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by booker: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// GetBookingsByOwner возвращает бронирования всех вещей владельца.
func (db *DB) GetBookingsByOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, offset, limit int) ([]*models.Booking, error) {
	cond, condArgs := stateCondition(state, now)
	query := `SELECT ` + bookingColumns + ` FROM bookings b
              JOIN items i ON i.id = b.item_id WHERE i.owner_id = ?` + cond +
		` ORDER BY b.start_date DESC LIMIT ? OFFSET ?`

	args := append([]any{ownerID}, condArgs...)
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by owner: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// GetLastBookingForItem возвращает последнее завершившееся бронирование вещи
// либо nil, если таких нет.
func (db *DB) GetLastBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b
              WHERE b.item_id = ? AND b.end_date < ?
              ORDER BY b.start_date DESC LIMIT 1`

	booking, err := scanBooking(db.QueryRowContext(ctx, query, itemID, formatTime(now)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last booking: %w", err)
	}

	return booking, nil
}

// GetNextBookingForItem возвращает ближайшее будущее бронирование вещи
// либо nil, если таких нет.
func (db *DB) GetNextBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b
              WHERE b.item_id = ? AND b.start_date > ?
              ORDER BY b.start_date ASC LIMIT 1`

	booking, err := scanBooking(db.QueryRowContext(ctx, query, itemID, formatTime(now)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next booking: %w", err)
	}

	return booking, nil
}

// HasPastBooking сообщает, завершал ли пользователь бронирование этой вещи.
func (db *DB) HasPastBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	query := `SELECT EXISTS (
                SELECT 1 FROM bookings b
                WHERE b.booker_id = ? AND b.item_id = ? AND b.end_date < ?
              )`

	var exists bool
	err := db.QueryRowContext(ctx, query, bookerID, itemID, formatTime(now)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check past bookings: %w", err)
	}
	return exists, nil
}

// GetBookingsByDateRange возвращает бронирования, пересекающиеся с периодом.
// Используется экспортом отчетов.
func (db *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b
              WHERE b.start_date < ? AND b.end_date > ?
              ORDER BY b.start_date, b.id`

	rows, err := db.QueryContext(ctx, query, formatTime(end), formatTime(start))
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by date range: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}
