package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"
)

// Transaction handlers. Creates and deletes go through the transaction
// service so budget alerts fire and mirror events get published; reads and
// partial updates hit the store directly.
//
// Every {id} handler checks existence before ownership: a row that is not
// there is 404 for everyone, a row owned by someone else is 403. The order
// keeps 404 from doubling as an ownership probe response.

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListTransactions(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}
	NewResponse().JSON(txs).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	t.ID = 0
	t.UserID = userFrom(r.Context()).ID

	if errs := t.Validate(); len(errs) > 0 {
		ValidationError(errs).Write(w)
		return
	}

	created, err := s.transactions.Create(r.Context(), t)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}
	s.invalidateReportCaches(created.UserID)

	NewResponse().Status(http.StatusCreated).JSON(created).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, ok := s.ownedTransaction(w, r)
	if !ok {
		return
	}
	NewResponse().JSON(t).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedTransaction(w, r)
	if !ok {
		return
	}

	// Decode over a copy of the stored row: absent fields keep their
	// current values, which is what makes PATCH partial.
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

	if err := s.store.UpdateTransaction(r.Context(), updated); err != nil {
		InternalError(r, err).Write(w)
		return
	}
	s.invalidateReportCaches(existing.UserID)

	NewResponse().JSON(updated).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedTransaction(w, r)
	if !ok {
		return
	}

	if err := s.transactions.Delete(r.Context(), existing.ID); err != nil {
		InternalError(r, err).Write(w)
		return
	}
	s.invalidateReportCaches(existing.UserID)

	MessageResponse("transaction deleted").Write(w)
}

// ownedTransaction loads the row named by {id} and enforces the
// 400/404/403 ladder, writing the error response itself. The second return
// is false when a response has already been written.
func (s *Server) ownedTransaction(w http.ResponseWriter, r *http.Request) (core.Transaction, bool) {
	id, ok := pathID(r)
	if !ok {
		BadRequestError("invalid id").Write(w)
		return core.Transaction{}, false
	}

	t, err := s.store.GetTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("transaction not found").Write(w)
			return core.Transaction{}, false
		}
		InternalError(r, err).Write(w)
		return core.Transaction{}, false
	}

	if t.UserID != userFrom(r.Context()).ID {
		ForbiddenError().Write(w)
		return core.Transaction{}, false
	}
	return t, true
}
