package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/reports"
)

// Report handlers. The two aggregation endpoints are cached per user; every
// transaction write drops the cached entry, so a hit is always current.
// Downloads are rendered fresh on every request.

func (s *Server) handleSpendingByCategory(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r.Context()).ID

	if cached, ok := s.insightsCache.Get(userID); ok {
		NewResponse().JSON(cached).Write(w)
		return
	}

	txs, err := s.store.ListTransactions(r.Context(), userID)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}

	summary := reports.SpendingByCategory(txs)
	s.insightsCache.Set(userID, summary)

	NewResponse().JSON(summary).Write(w)
}

func (s *Server) handleSpendingReport(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r.Context()).ID

	if cached, ok := s.reportCache.Get(userID); ok {
		NewResponse().JSON(cached).Write(w)
		return
	}

	txs, err := s.store.ListTransactions(r.Context(), userID)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}

	report := reports.BuildSpendingReport(txs)
	s.reportCache.Set(userID, report)

	NewResponse().JSON(report).Write(w)
}

// handleDownloadCSV streams the user's full transaction history as a CSV
// attachment. The file is rendered into memory first so a render failure
// can still produce a 500 instead of a truncated download.
func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListTransactions(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteCSV(&buf, txs); err != nil {
		InternalError(r, err).Write(w)
		return
	}

	NewResponse().
		Header("Content-Type", "text/csv").
		Header("Content-Disposition", `attachment; filename="transactions.csv"`).
		Body(buf.Bytes()).
		Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r.Context()).ID

	txs, err := s.store.ListTransactions(r.Context(), userID)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}
	incomes, err := s.store.ListIncomes(r.Context(), userID)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}

	NewResponse().JSON(reports.BuildSummary(txs, incomes)).Write(w)
}

// handleStatement renders the monthly PDF statement. Year and month come
// from the query string and default to the current month.
func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			BadRequestError("invalid year").Write(w)
			return
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			BadRequestError("invalid month").Write(w)
			return
		}
		month = m
	}
	if month < 1 || month > 12 {
		BadRequestError("month must be between 1 and 12").Write(w)
		return
	}

	txs, err := s.store.ListTransactions(r.Context(), user.ID)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}

	pdf, err := reports.BuildStatementPDF(user, year, month, txs)
	if err != nil {
		InternalError(r, err).Write(w)
		return
	}

	NewResponse().
		Header("Content-Type", "application/pdf").
		Header("Content-Disposition", fmt.Sprintf(`attachment; filename="statement-%04d-%02d.pdf"`, year, month)).
		Body(pdf).
		Write(w)
}
