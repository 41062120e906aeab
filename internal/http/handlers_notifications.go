package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"
)

// Notification handlers. Budget alerts create most rows server-side; the
// client-facing surface keeps the same CRUD shape as the other entities,
// with one restriction: PATCH only moves Read from false to true. Message
// and timestamp are pinned to what the server wrote.

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListNotifications(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}
	NewResponse().JSON(rows).Write(w)
}

func (s *Server) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	var n core.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	n.ID = 0
	n.UserID = userFrom(r.Context()).ID

	if errs := n.Validate(); len(errs) > 0 {
		ValidationError(errs).Write(w)
		return
	}

	created, err := s.store.CreateNotification(r.Context(), n)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}

	NewResponse().Status(http.StatusCreated).JSON(created).Write(w)
}

func (s *Server) handleGetNotification(w http.ResponseWriter, r *http.Request) {
	n, ok := s.ownedNotification(w, r)
	if !ok {
		return
	}
	NewResponse().JSON(n).Write(w)
}

func (s *Server) handleUpdateNotification(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedNotification(w, r)
	if !ok {
		return
	}

	updated := existing
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	updated.ID = existing.ID
	updated.UserID = existing.UserID
	updated.Message = existing.Message
	updated.CreatedAt = existing.CreatedAt
	// Read is one-way: once seen, a notification stays seen.
	updated.Read = existing.Read || updated.Read

	if err := s.store.UpdateNotification(r.Context(), updated); err != nil {
		InternalError(r, err).Write(w)
		return
	}

	NewResponse().JSON(updated).Write(w)
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedNotification(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteNotification(r.Context(), existing.ID); err != nil {
		InternalError(r, err).Write(w)
		return
	}

	MessageResponse("notification deleted").Write(w)
}

func (s *Server) ownedNotification(w http.ResponseWriter, r *http.Request) (core.Notification, bool) {
	id, ok := pathID(r)
	if !ok {
		BadRequestError("invalid id").Write(w)
		return core.Notification{}, false
	}

	n, err := s.store.GetNotification(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("notification not found").Write(w)
			return core.Notification{}, false
		}
		InternalError(r, err).Write(w)
		return core.Notification{}, false
	}

	if n.UserID != userFrom(r.Context()).ID {
		ForbiddenError().Write(w)
		return core.Notification{}, false
	}
	return n, true
}
