package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"sharekit/internal/metrics"
	"sharekit/internal/models"
)

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	bookerID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.ItemID <= 0 {
		writeError(w, http.StatusBadRequest, "itemId is required")
		return
	}
	if body.Start.IsZero() || body.End.IsZero() {
		writeError(w, http.StatusBadRequest, "start and end are required")
		return
	}

	booking, err := s.services.Bookings.Create(r.Context(), bookerID, body.ItemID, body.Start, body.End)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	metrics.IncBookingCreated()
	writeJSON(w, http.StatusCreated, toBookingResponse(booking))
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	requesterID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := s.services.Bookings.GetByID(r.Context(), requesterID, bookingID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (s *HTTPServer) handleListBookerBookings(w http.ResponseWriter, r *http.Request) {
	bookerID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, from, size, err := listParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.services.Bookings.ListByBooker(r.Context(), bookerID, state, from, size)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}

func (s *HTTPServer) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, from, size, err := listParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.services.Bookings.ListByOwner(r.Context(), ownerID, state, from, size)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}

func (s *HTTPServer) handleDecideBooking(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var approved bool
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("approved"))) {
	case "true":
		approved = true
	case "false":
		approved = false
	default:
		writeError(w, http.StatusBadRequest, "approved=true|false is required")
		return
	}

	booking, err := s.services.Bookings.SetApproval(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	if approved {
		metrics.IncBookingDecision("approved")
	} else {
		metrics.IncBookingDecision("rejected")
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func listParams(r *http.Request) (models.BookingState, int, int, error) {
	state, err := models.ParseBookingState(r.URL.Query().Get("state"))
	if err != nil {
		return "", 0, 0, err
	}

	from, size, err := pagination(r)
	if err != nil {
		return "", 0, 0, err
	}

	return state, from, size, nil
}
