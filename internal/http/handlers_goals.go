package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListGoals(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}
	NewResponse().JSON(rows).Write(w)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var g core.Goal
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	g.ID = 0
	g.UserID = userFrom(r.Context()).ID

	if errs := g.Validate(); len(errs) > 0 {
		ValidationError(errs).Write(w)
		return
	}

	created, err := s.store.CreateGoal(r.Context(), g)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}

	NewResponse().Status(http.StatusCreated).JSON(created).Write(w)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, ok := s.ownedGoal(w, r)
	if !ok {
		return
	}
	NewResponse().JSON(g).Write(w)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedGoal(w, r)
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

	if err := s.store.UpdateGoal(r.Context(), updated); err != nil {
		InternalError(r, err).Write(w)
		return
	}

	NewResponse().JSON(updated).Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedGoal(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteGoal(r.Context(), existing.ID); err != nil {
		InternalError(r, err).Write(w)
		return
	}

	MessageResponse("goal deleted").Write(w)
}

func (s *Server) ownedGoal(w http.ResponseWriter, r *http.Request) (core.Goal, bool) {
	id, ok := pathID(r)
	if !ok {
		BadRequestError("invalid id").Write(w)
		return core.Goal{}, false
	}

	g, err := s.store.GetGoal(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("goal not found").Write(w)
			return core.Goal{}, false
		}
		InternalError(r, err).Write(w)
		return core.Goal{}, false
	}

	if g.UserID != userFrom(r.Context()).ID {
		ForbiddenError().Write(w)
		return core.Goal{}, false
	}
	return g, true
}
