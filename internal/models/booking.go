package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownState возвращается для нераспознанного значения фильтра state.
var ErrUnknownState = errors.New("unknown booking state")

type Booking struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"item_id"`
	ItemName   string    `json:"item_name"`
	BookerID   int64     `json:"booker_id"`
	BookerName string    `json:"booker_name"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"` // WAITING, APPROVED, REJECTED
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BookingState — фильтр списков бронирований. Статусы WAITING/REJECTED
// сравниваются по полю status, остальные считаются от текущего момента.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState разбирает значение query-параметра state.
// Пустая строка трактуется как ALL.
func ParseBookingState(raw string) (BookingState, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return StateAll, nil
	}
	switch BookingState(s) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return BookingState(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownState, raw)
	}
}
