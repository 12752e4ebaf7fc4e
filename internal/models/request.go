package models

import "time"

// ItemRequest — заявка пользователя на вещь, которой ещё нет в каталоге.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requester_id"`
	CreatedAt   time.Time `json:"created"`
}
