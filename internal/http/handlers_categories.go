package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListCategories(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}
	NewResponse().JSON(rows).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var c core.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	c.ID = 0
	c.UserID = userFrom(r.Context()).ID
	if c.Type == "" {
		c.Type = core.TypeExpense
	}

	if errs := c.Validate(); len(errs) > 0 {
		ValidationError(errs).Write(w)
		return
	}

	created, err := s.store.CreateCategory(r.Context(), c)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}

	NewResponse().Status(http.StatusCreated).JSON(created).Write(w)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	c, ok := s.ownedCategory(w, r)
	if !ok {
		return
	}
	NewResponse().JSON(c).Write(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedCategory(w, r)
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

	if err := s.store.UpdateCategory(r.Context(), updated); err != nil {
		InternalError(r, err).Write(w)
		return
	}

	NewResponse().JSON(updated).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedCategory(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteCategory(r.Context(), existing.ID); err != nil {
		InternalError(r, err).Write(w)
		return
	}

	MessageResponse("category deleted").Write(w)
}

func (s *Server) ownedCategory(w http.ResponseWriter, r *http.Request) (core.Category, bool) {
	id, ok := pathID(r)
	if !ok {
		BadRequestError("invalid id").Write(w)
		return core.Category{}, false
	}

	c, err := s.store.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("category not found").Write(w)
			return core.Category{}, false
		}
		InternalError(r, err).Write(w)
		return core.Category{}, false
	}

	if c.UserID != userFrom(r.Context()).ID {
		ForbiddenError().Write(w)
		return core.Category{}, false
	}
	return c, true
}
