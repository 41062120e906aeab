package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"
)

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListIncomes(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}
	NewResponse().JSON(rows).Write(w)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var in core.Income
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	in.ID = 0
	in.UserID = userFrom(r.Context()).ID

	if errs := in.Validate(); len(errs) > 0 {
		ValidationError(errs).Write(w)
		return
	}

	created, err := s.store.CreateIncome(r.Context(), in)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}

	NewResponse().Status(http.StatusCreated).JSON(created).Write(w)
}

func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	in, ok := s.ownedIncome(w, r)
	if !ok {
		return
	}
	NewResponse().JSON(in).Write(w)
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedIncome(w, r)
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

	if err := s.store.UpdateIncome(r.Context(), updated); err != nil {
		InternalError(r, err).Write(w)
		return
	}

	NewResponse().JSON(updated).Write(w)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedIncome(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteIncome(r.Context(), existing.ID); err != nil {
		InternalError(r, err).Write(w)
		return
	}

	MessageResponse("income deleted").Write(w)
}

func (s *Server) ownedIncome(w http.ResponseWriter, r *http.Request) (core.Income, bool) {
	id, ok := pathID(r)
	if !ok {
		BadRequestError("invalid id").Write(w)
		return core.Income{}, false
	}

	in, err := s.store.GetIncome(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("income not found").Write(w)
			return core.Income{}, false
		}
		InternalError(r, err).Write(w)
		return core.Income{}, false
	}

	if in.UserID != userFrom(r.Context()).ID {
		ForbiddenError().Write(w)
		return core.Income{}, false
	}
	return in, true
}
