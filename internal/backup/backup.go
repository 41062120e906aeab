// Package backup snapshots a user's five entity collections (transactions,
// incomes, budgets, goals, categories) into one JSON object and loads such
// an object back, replacing whatever the user had.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"
)

// ErrInvalidPayload marks a restore payload that is not a JSON object at all.
// Callers can distinguish it from store failures; nothing has been deleted
// when Restore returns it.
var ErrInvalidPayload = errors.New("invalid restore payload")

type (
	// Archive is the snapshot Create returns: the full content of the five
	// collections owned by one user, each in store enumeration order.
	Archive struct {
		Transactions []core.Transaction `json:"transactions"`
		Incomes      []core.Income      `json:"incomes"`
		Budgets      []core.Budget      `json:"budgets"`
		Goals        []core.Goal        `json:"goals"`
		Categories   []core.Category    `json:"categories"`
	}

	// Result reports what a restore did: rows inserted per collection, plus
	// how many incoming rows were dropped for failing to decode or validate.
	Result struct {
		Transactions int `json:"transactions"`
		Incomes      int `json:"incomes"`
		Budgets      int `json:"budgets"`
		Goals        int `json:"goals"`
		Categories   int `json:"categories"`
		Skipped      int `json:"skipped"`
	}

	// envelope is the restore payload. Pointer fields distinguish an omitted
	// key from an empty array: an omitted collection is cleared and left
	// empty. Rows stay raw so each one is decoded and validated on its own.
	envelope struct {
		Transactions *[]json.RawMessage `json:"transactions"`
		Incomes      *[]json.RawMessage `json:"incomes"`
		Budgets      *[]json.RawMessage `json:"budgets"`
		Goals        *[]json.RawMessage `json:"goals"`
		Categories   *[]json.RawMessage `json:"categories"`
	}

	// Service reads and writes the five collections as one unit.
	Service struct {
		store store.Store
	}
)

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Create snapshots the user's five collections, fetching them concurrently.
func (s *Service) Create(ctx context.Context, userID int64) (*Archive, error) {
	var a Archive
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.store.ListTransactions(ctx, userID)
		if err != nil {
			return fmt.Errorf("snapshot transactions: %w", err)
		}
		a.Transactions = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListIncomes(ctx, userID)
		if err != nil {
			return fmt.Errorf("snapshot incomes: %w", err)
		}
		a.Incomes = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListBudgets(ctx, userID)
		if err != nil {
			return fmt.Errorf("snapshot budgets: %w", err)
		}
		a.Budgets = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListGoals(ctx, userID)
		if err != nil {
			return fmt.Errorf("snapshot goals: %w", err)
		}
		a.Goals = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListCategories(ctx, userID)
		if err != nil {
			return fmt.Errorf("snapshot categories: %w", err)
		}
		a.Categories = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Restore wipes the user's five collections and reloads them from data. Each
// collection is cleared whether or not its key is present; rows are only
// inserted for keys that are. Incoming ids are discarded and the store
// assigns fresh ones; the owning user is always the caller. Rows that fail
// to decode or validate are skipped and counted, never aborting the batch.
//
// The wipe and reload are not wrapped in a transaction. A store failure
// partway through leaves some collections cleared and not yet repopulated.
func (s *Service) Restore(ctx context.Context, userID int64, data []byte) (*Result, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var res Result

	if err := s.store.DeleteTransactionsByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear transactions: %w", err)
	}
	if env.Transactions != nil {
		for _, raw := range *env.Transactions {
			t, ok := decodeRow[core.Transaction](raw)
			if !ok {
				res.Skipped++
				continue
			}
			t.ID = 0
			t.UserID = userID
			if _, err := s.store.CreateTransaction(ctx, t); err != nil {
				return nil, fmt.Errorf("restore transaction: %w", err)
			}
			res.Transactions++
		}
	}

	if err := s.store.DeleteIncomesByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear incomes: %w", err)
	}
	if env.Incomes != nil {
		for _, raw := range *env.Incomes {
			in, ok := decodeRow[core.Income](raw)
			if !ok {
				res.Skipped++
				continue
			}
			in.ID = 0
			in.UserID = userID
			if _, err := s.store.CreateIncome(ctx, in); err != nil {
				return nil, fmt.Errorf("restore income: %w", err)
			}
			res.Incomes++
		}
	}

	if err := s.store.DeleteBudgetsByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear budgets: %w", err)
	}
	if env.Budgets != nil {
		for _, raw := range *env.Budgets {
			b, ok := decodeRow[core.Budget](raw)
			if !ok {
				res.Skipped++
				continue
			}
			b.ID = 0
			b.UserID = userID
			if _, err := s.store.CreateBudget(ctx, b); err != nil {
				return nil, fmt.Errorf("restore budget: %w", err)
			}
			res.Budgets++
		}
	}

	if err := s.store.DeleteGoalsByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear goals: %w", err)
	}
	if env.Goals != nil {
		for _, raw := range *env.Goals {
			g, ok := decodeRow[core.Goal](raw)
			if !ok {
				res.Skipped++
				continue
			}
			g.ID = 0
			g.UserID = userID
			if _, err := s.store.CreateGoal(ctx, g); err != nil {
				return nil, fmt.Errorf("restore goal: %w", err)
			}
			res.Goals++
		}
	}

	if err := s.store.DeleteCategoriesByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear categories: %w", err)
	}
	if env.Categories != nil {
		for _, raw := range *env.Categories {
			c, ok := decodeRow[core.Category](raw)
			if !ok {
				res.Skipped++
				continue
			}
			c.ID = 0
			c.UserID = userID
			if _, err := s.store.CreateCategory(ctx, c); err != nil {
				return nil, fmt.Errorf("restore category: %w", err)
			}
			res.Categories++
		}
	}

	slog.InfoContext(ctx, "Restore completed",
		"user_id", userID,
		"transactions", res.Transactions,
		"incomes", res.Incomes,
		"budgets", res.Budgets,
		"goals", res.Goals,
		"categories", res.Categories,
		"skipped", res.Skipped)
	return &res, nil
}

// decodeRow unmarshals one raw row and runs its field validation. A row
// that fails either way is dropped by the caller.
func decodeRow[T interface{ Validate() []core.FieldError }](raw json.RawMessage) (T, bool) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false
	}
	if len(v.Validate()) > 0 {
		var zero T
		return zero, false
	}
	return v, true
}
