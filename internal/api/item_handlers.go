package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"sharekit/internal/domain"
	"sharekit/internal/models"
)

func (s *HTTPServer) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if strings.TrimSpace(body.Description) == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	if body.Available == nil {
		writeError(w, http.StatusBadRequest, "available is required")
		return
	}

	item := &models.Item{
		Name:        body.Name,
		Description: body.Description,
		Available:   *body.Available,
		RequestID:   body.RequestID,
	}

	created, err := s.services.Items.Create(r.Context(), ownerID, item)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toItemResponse(created))
}

func (s *HTTPServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	patch := domain.ItemPatch{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	}

	item, err := s.services.Items.Update(r.Context(), ownerID, itemID, patch)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *HTTPServer) handleGetItem(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	details, err := s.services.Items.GetByID(r.Context(), userID, itemID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemDetailsResponse(details))
}

func (s *HTTPServer) handleListOwnerItems(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	from, size, err := pagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	details, err := s.services.Items.ListByOwner(r.Context(), ownerID, from, size)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	out := make([]itemResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toItemDetailsResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	if _, err := sharerID(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	from, size, err := pagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.services.Items.Search(r.Context(), r.URL.Query().Get("text"), from, size)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponses(items))
}

func (s *HTTPServer) handleAddComment(w http.ResponseWriter, r *http.Request) {
	authorID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	comment, err := s.services.Items.AddComment(r.Context(), authorID, itemID, body.Text)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}
