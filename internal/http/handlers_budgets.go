package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"
)

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListBudgets(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}
	NewResponse().JSON(rows).Write(w)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var b core.Budget
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	b.ID = 0
	b.UserID = userFrom(r.Context()).ID

	if errs := b.Validate(); len(errs) > 0 {
		ValidationError(errs).Write(w)
		return
	}

	created, err := s.store.CreateBudget(r.Context(), b)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}

	NewResponse().Status(http.StatusCreated).JSON(created).Write(w)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	b, ok := s.ownedBudget(w, r)
	if !ok {
		return
	}
	NewResponse().JSON(b).Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedBudget(w, r)
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

	if errs := updated.Validate(); len(errs) > 0 {
		ValidationError(errs).Write(w)
		return
	}

	if err := s.store.UpdateBudget(r.Context(), updated); err != nil {
		InternalError(r, err).Write(w)
		return
	}

	NewResponse().JSON(updated).Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedBudget(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteBudget(r.Context(), existing.ID); err != nil {
		InternalError(r, err).Write(w)
		return
	}

	MessageResponse("budget deleted").Write(w)
}

func (s *Server) ownedBudget(w http.ResponseWriter, r *http.Request) (core.Budget, bool) {
	id, ok := pathID(r)
	if !ok {
		BadRequestError("invalid id").Write(w)
		return core.Budget{}, false
	}

	b, err := s.store.GetBudget(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("budget not found").Write(w)
			return core.Budget{}, false
		}
		InternalError(r, err).Write(w)
		return core.Budget{}, false
	}

	if b.UserID != userFrom(r.Context()).ID {
		ForbiddenError().Write(w)
		return core.Budget{}, false
	}
	return b, true
}
