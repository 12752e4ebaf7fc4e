package api

import (
	"time"

	"sharekit/internal/domain"
	"sharekit/internal/models"
)

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   int64  `json:"requestId"`
}

type updateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type createBookingRequest struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

type addCommentRequest struct {
	Text string `json:"text"`
}

type createRequestRequest struct {
	Description string `json:"description"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type refResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type bookingResponse struct {
	ID     int64       `json:"id"`
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	Status string      `json:"status"`
	Booker refResponse `json:"booker"`
	Item   refResponse `json:"item"`
}

type bookingShortResponse struct {
	ID       int64     `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	BookerID int64     `json:"bookerId"`
}

type commentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

type itemResponse struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Available   bool                  `json:"available"`
	RequestID   int64                 `json:"requestId,omitempty"`
	LastBooking *bookingShortResponse `json:"lastBooking,omitempty"`
	NextBooking *bookingShortResponse `json:"nextBooking,omitempty"`
	Comments    []commentResponse     `json:"comments"`
}

type requestResponse struct {
	ID          int64          `json:"id"`
	Description string         `json:"description"`
	Created     time.Time      `json:"created"`
	Items       []itemResponse `json:"items"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{ID: user.ID, Name: user.Name, Email: user.Email}
}

func toBookingResponse(booking *models.Booking) bookingResponse {
	return bookingResponse{
		ID:     booking.ID,
		Start:  booking.Start,
		End:    booking.End,
		Status: booking.Status,
		Booker: refResponse{ID: booking.BookerID, Name: booking.BookerName},
		Item:   refResponse{ID: booking.ItemID, Name: booking.ItemName},
	}
}

func toBookingResponses(bookings []*models.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out
}

func toBookingShort(booking *models.Booking) *bookingShortResponse {
	if booking == nil {
		return nil
	}
	return &bookingShortResponse{
		ID:       booking.ID,
		Start:    booking.Start,
		End:      booking.End,
		BookerID: booking.BookerID,
	}
}

func toCommentResponse(comment *models.Comment) commentResponse {
	return commentResponse{
		ID:         comment.ID,
		Text:       comment.Text,
		AuthorName: comment.AuthorName,
		Created:    comment.CreatedAt,
	}
}

func toCommentResponses(comments []*models.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out
}

func toItemResponse(item *models.Item) itemResponse {
	return itemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
		Comments:    []commentResponse{},
	}
}

func toItemDetailsResponse(details *domain.ItemDetails) itemResponse {
	out := toItemResponse(details.Item)
	out.LastBooking = toBookingShort(details.LastBooking)
	out.NextBooking = toBookingShort(details.NextBooking)
	out.Comments = toCommentResponses(details.Comments)
	return out
}

func toItemResponses(items []*models.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}

func toRequestResponse(details *domain.RequestDetails) requestResponse {
	return requestResponse{
		ID:          details.Request.ID,
		Description: details.Request.Description,
		Created:     details.Request.CreatedAt,
		Items:       toItemResponses(details.Items),
	}
}

func toRequestResponses(details []*domain.RequestDetails) []requestResponse {
	out := make([]requestResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toRequestResponse(d))
	}
	return out
}
