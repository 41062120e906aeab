// Package sqlite implements store.Store on a local SQLite database. Tables
// use AUTOINCREMENT primary keys so ids stay monotonic and are never
// recycled, matching the in-memory backend. The transactions table also
// carries sync bookkeeping consumed by the sheets mirror worker.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable, for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func parseDay(s string) core.Date {
	if s == "" {
		return core.Date{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}
	}
	return core.Date{Time: t}
}

func (s *Store) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, u.Username).Scan(&exists)
	if err != nil {
		return core.User{}, fmt.Errorf("check username: %w", err)
	}
	if exists > 0 {
		return core.User{}, store.ErrUsernameTaken
	}
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, u.Email).Scan(&exists)
	if err != nil {
		return core.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists > 0 {
		return core.User{}, store.ErrEmailTaken
	}

	u.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, name, email, password, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.Name, u.Email, u.Password, u.CreatedAt)
	if err != nil {
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("user id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", u.ID, "username", u.Username)
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, name, email, password, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Password, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, name, email, password, created_at FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Password, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, amount, category, description, tx_date, tx_type, recurring, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Amount, t.Category, t.Description, t.Date.String(), string(t.Type), t.Recurring, t.Note)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	return t, nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	var t core.Transaction
	var day string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount, category, description, tx_date, tx_type, recurring, note
		 FROM transactions WHERE id = ?`, id).
		Scan(&t.ID, &t.UserID, &t.Amount, &t.Category, &t.Description, &day, &t.Type, &t.Recurring, &t.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	t.Date = parseDay(day)
	return t, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, amount, category, description, tx_date, tx_type, recurring, note
		 FROM transactions WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		var t core.Transaction
		var day string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Category, &t.Description, &day, &t.Type, &t.Recurring, &t.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date = parseDay(day)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET amount = ?, category = ?, description = ?, tx_date = ?, tx_type = ?, recurring = ?, note = ?
		 WHERE id = ?`,
		t.Amount, t.Category, t.Description, t.Date.String(), string(t.Type), t.Recurring, t.Note, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return mustAffect(res)
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return mustAffect(res)
}

func (s *Store) DeleteTransactionsByUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete transactions by user: %w", err)
	}
	return nil
}

func (s *Store) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO incomes (user_id, source, amount, income_date, recurring) VALUES (?, ?, ?, ?, ?)`,
		in.UserID, in.Source, in.Amount, in.Date.String(), in.Recurring)
	if err != nil {
		return core.Income{}, fmt.Errorf("insert income: %w", err)
	}
	in.ID, err = res.LastInsertId()
	if err != nil {
		return core.Income{}, fmt.Errorf("income id: %w", err)
	}
	return in, nil
}

func (s *Store) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	var in core.Income
	var day string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, source, amount, income_date, recurring FROM incomes WHERE id = ?`, id).
		Scan(&in.ID, &in.UserID, &in.Source, &in.Amount, &day, &in.Recurring)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, store.ErrNotFound
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("get income: %w", err)
	}
	in.Date = parseDay(day)
	return in, nil
}

func (s *Store) ListIncomes(ctx context.Context, userID int64) ([]core.Income, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, source, amount, income_date, recurring FROM incomes WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	out := []core.Income{}
	for rows.Next() {
		var in core.Income
		var day string
		if err := rows.Scan(&in.ID, &in.UserID, &in.Source, &in.Amount, &day, &in.Recurring); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		in.Date = parseDay(day)
		out = append(out, in)
	}
	return out, rows.Err()
}

func (s *Store) UpdateIncome(ctx context.Context, in core.Income) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE incomes SET source = ?, amount = ?, income_date = ?, recurring = ? WHERE id = ?`,
		in.Source, in.Amount, in.Date.String(), in.Recurring, in.ID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return mustAffect(res)
}

func (s *Store) DeleteIncome(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return mustAffect(res)
}

func (s *Store) DeleteIncomesByUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM incomes WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete incomes by user: %w", err)
	}
	return nil
}

func (s *Store) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, amount, period) VALUES (?, ?, ?, ?)`,
		b.UserID, b.Category, b.Amount, string(b.Period))
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget id: %w", err)
	}
	return b, nil
}

func (s *Store) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	var b core.Budget
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, amount, period FROM budgets WHERE id = ?`, id).
		Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Period)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, store.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (s *Store) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, category, amount, period FROM budgets WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := []core.Budget{}
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Period); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET category = ?, amount = ?, period = ? WHERE id = ?`,
		b.Category, b.Amount, string(b.Period), b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return mustAffect(res)
}

func (s *Store) DeleteBudget(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return mustAffect(res)
}

func (s *Store) DeleteBudgetsByUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete budgets by user: %w", err)
	}
	return nil
}

func (s *Store) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, name, target_amount, current_amount, deadline) VALUES (?, ?, ?, ?, ?)`,
		g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline.String())
	if err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	g.ID, err = res.LastInsertId()
	if err != nil {
		return core.Goal{}, fmt.Errorf("goal id: %w", err)
	}
	return g, nil
}

func (s *Store) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	var g core.Goal
	var deadline string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, target_amount, current_amount, deadline FROM goals WHERE id = ?`, id).
		Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &deadline)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, store.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	g.Deadline = parseDay(deadline)
	return g, nil
}

func (s *Store) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_amount, current_amount, deadline FROM goals WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	out := []core.Goal{}
	for rows.Next() {
		var g core.Goal
		var deadline string
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &deadline); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.Deadline = parseDay(deadline)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, target_amount = ?, current_amount = ?, deadline = ? WHERE id = ?`,
		g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline.String(), g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return mustAffect(res)
}

func (s *Store) DeleteGoal(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return mustAffect(res)
}

func (s *Store) DeleteGoalsByUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete goals by user: %w", err)
	}
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, cat_type) VALUES (?, ?, ?)`,
		c.UserID, c.Name, string(c.Type))
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category id: %w", err)
	}
	return c, nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, cat_type FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, store.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *Store) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, cat_type FROM categories WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []core.Category{}
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, cat_type = ? WHERE id = ?`,
		c.Name, string(c.Type), c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return mustAffect(res)
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return mustAffect(res)
}

func (s *Store) DeleteCategoriesByUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete categories by user: %w", err)
	}
	return nil
}

func (s *Store) CreateNotification(ctx context.Context, n core.Notification) (core.Notification, error) {
	n.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, message, read_flag, created_at) VALUES (?, ?, ?, ?)`,
		n.UserID, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		return core.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	n.ID, err = res.LastInsertId()
	if err != nil {
		return core.Notification{}, fmt.Errorf("notification id: %w", err)
	}
	return n, nil
}

func (s *Store) GetNotification(ctx context.Context, id int64) (core.Notification, error) {
	var n core.Notification
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, message, read_flag, created_at FROM notifications WHERE id = ?`, id).
		Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Notification{}, store.ErrNotFound
	}
	if err != nil {
		return core.Notification{}, fmt.Errorf("get notification: %w", err)
	}
	return n, nil
}

func (s *Store) ListNotifications(ctx context.Context, userID int64) ([]core.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, message, read_flag, created_at FROM notifications WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []core.Notification{}
	for rows.Next() {
		var n core.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) UpdateNotification(ctx context.Context, n core.Notification) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET message = ?, read_flag = ? WHERE id = ?`,
		n.Message, n.Read, n.ID)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	return mustAffect(res)
}

func (s *Store) DeleteNotification(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return mustAffect(res)
}

// mustAffect turns a zero-row update or delete into ErrNotFound.
func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
