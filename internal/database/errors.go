package database

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrRequestNotFound = errors.New("item request not found")

	// ErrEmailTaken почта уже занята другим пользователем
	ErrEmailTaken = errors.New("email already taken")

	// ErrItemUnavailable вещь снята с бронирования владельцем
	ErrItemUnavailable = errors.New("item is unavailable")

	// ErrOwnItemBooking владелец пытается забронировать свою вещь
	ErrOwnItemBooking = errors.New("owner cannot book own item")

	// ErrAlreadyDecided по заявке уже принято решение, статус терминальный
	ErrAlreadyDecided = errors.New("booking already decided")

	// ErrAccessDenied у пользователя нет нужной связи с ресурсом
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidTimeRange начало брони в прошлом или не раньше конца
	ErrInvalidTimeRange = errors.New("invalid booking time range")

	// ErrInvalidPagination отрицательный from или неположительный size
	ErrInvalidPagination = errors.New("invalid pagination parameters")

	// ErrNotOwner редактировать вещь может только владелец
	ErrNotOwner = errors.New("user is not the item owner")

	// ErrCommentNotAllowed комментировать можно только после завершенной брони
	ErrCommentNotAllowed = errors.New("commenting requires a finished booking")
)
