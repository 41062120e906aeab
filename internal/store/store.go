// Package store defines the persistence ports for the tracker. Each entity
// type gets its own table with a monotonically increasing id counter;
// implementations live in store/memory and store/sqlite and are selected by
// the backend factory at startup.
package store

import (
	"context"
	"errors"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
)

var (
	// ErrNotFound is returned when a row does not exist in the table.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken and ErrEmailTaken enforce the two uniqueness
	// constraints on users at insert time.
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
)

type (
	UserStore interface {
		// CreateUser assigns the id and creation timestamp. It fails with
		// ErrUsernameTaken or ErrEmailTaken before inserting anything.
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		GetUser(ctx context.Context, id int64) (core.User, error)
		GetUserByUsername(ctx context.Context, username string) (core.User, error)
	}

	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, id int64) error
		DeleteTransactionsByUser(ctx context.Context, userID int64) error
	}

	IncomeStore interface {
		CreateIncome(ctx context.Context, i core.Income) (core.Income, error)
		GetIncome(ctx context.Context, id int64) (core.Income, error)
		ListIncomes(ctx context.Context, userID int64) ([]core.Income, error)
		UpdateIncome(ctx context.Context, i core.Income) error
		DeleteIncome(ctx context.Context, id int64) error
		DeleteIncomesByUser(ctx context.Context, userID int64) error
	}

	BudgetStore interface {
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		GetBudget(ctx context.Context, id int64) (core.Budget, error)
		ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, id int64) error
		DeleteBudgetsByUser(ctx context.Context, userID int64) error
	}

	GoalStore interface {
		CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
		GetGoal(ctx context.Context, id int64) (core.Goal, error)
		ListGoals(ctx context.Context, userID int64) ([]core.Goal, error)
		UpdateGoal(ctx context.Context, g core.Goal) error
		DeleteGoal(ctx context.Context, id int64) error
		DeleteGoalsByUser(ctx context.Context, userID int64) error
	}

	CategoryStore interface {
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		GetCategory(ctx context.Context, id int64) (core.Category, error)
		ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
		UpdateCategory(ctx context.Context, c core.Category) error
		DeleteCategory(ctx context.Context, id int64) error
		DeleteCategoriesByUser(ctx context.Context, userID int64) error
	}

	NotificationStore interface {
		CreateNotification(ctx context.Context, n core.Notification) (core.Notification, error)
		GetNotification(ctx context.Context, id int64) (core.Notification, error)
		ListNotifications(ctx context.Context, userID int64) ([]core.Notification, error)
		UpdateNotification(ctx context.Context, n core.Notification) error
		DeleteNotification(ctx context.Context, id int64) error
	}
)

// Store is the full persistence surface the server is wired with. List
// methods enumerate rows in insertion order, which for both implementations
// coincides with ascending id order.
type Store interface {
	UserStore
	TransactionStore
	IncomeStore
	BudgetStore
	GoalStore
	CategoryStore
	NotificationStore
}
