package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/backup"
)

// restoreRequest wraps the archive under a data key. Keeping the archive
// raw means the outer request can be rejected before anything is deleted.
type restoreRequest struct {
	Data json.RawMessage `json:"data"`
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	archive, err := s.backups.Create(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}
	NewResponse().JSON(archive).Write(w)
}

// handleRestore replaces the user's collections with the uploaded archive.
// The operation is destructive and not transactional: a collection missing
// from the archive is still cleared, and a store failure midway leaves the
// collections processed so far already replaced.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	if len(req.Data) == 0 || string(req.Data) == "null" {
		BadRequestError("data is required").Write(w)
		return
	}

	userID := userFrom(r.Context()).ID
	res, err := s.backups.Restore(r.Context(), userID, req.Data)
	// Rows may have been replaced even when restore failed midway.
	s.invalidateReportCaches(userID)
	if err != nil {
		if errors.Is(err, backup.ErrInvalidPayload) {
			BadRequestError("invalid restore payload").Write(w)
			return
		}
		InternalError(r, err).Write(w)
		return
	}

	NewResponse().JSON(map[string]any{
		"message":  "restore completed",
		"restored": res,
	}).Write(w)
}
