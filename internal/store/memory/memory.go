// Package memory implements store.Store with arena-style tables: one
// append-only slice per entity type, ids assigned by a monotonic per-table
// counter, deleted rows tombstoned in place. Enumeration walks the arena in
// index order, so lists come back in insertion order. Everything is guarded
// by a single RWMutex; state is lost on process exit.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"
)

// table is an arena of rows. Ids start at 1 and are never recycled; row id n
// lives at index n-1, deletion nils the slot.
type table[T any] struct {
	rows   []*T
	nextID int64
}

func (t *table[T]) insert(row T) (int64, *T) {
	t.nextID++
	p := &row
	t.rows = append(t.rows, p)
	return t.nextID, p
}

func (t *table[T]) get(id int64) (*T, bool) {
	if id < 1 || id > int64(len(t.rows)) {
		return nil, false
	}
	p := t.rows[id-1]
	if p == nil {
		return nil, false
	}
	return p, true
}

func (t *table[T]) delete(id int64) bool {
	if id < 1 || id > int64(len(t.rows)) || t.rows[id-1] == nil {
		return false
	}
	t.rows[id-1] = nil
	return true
}

// each visits live rows in insertion order.
func (t *table[T]) each(fn func(*T)) {
	for _, p := range t.rows {
		if p != nil {
			fn(p)
		}
	}
}

type Store struct {
	mu sync.RWMutex

	users         table[core.User]
	transactions  table[core.Transaction]
	incomes       table[core.Income]
	budgets       table[core.Budget]
	goals         table[core.Goal]
	categories    table[core.Category]
	notifications table[core.Notification]

	now func() time.Time
}

func New() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var taken error
	s.users.each(func(other *core.User) {
		if taken != nil {
			return
		}
		if other.Username == u.Username {
			taken = store.ErrUsernameTaken
		} else if other.Email == u.Email {
			taken = store.ErrEmailTaken
		}
	})
	if taken != nil {
		return core.User{}, taken
	}

	u.CreatedAt = s.now()
	id, p := s.users.insert(u)
	p.ID = id
	return *p, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.users.get(id)
	if !ok {
		return core.User{}, store.ErrNotFound
	}
	return *p, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *core.User
	s.users.each(func(u *core.User) {
		if found == nil && u.Username == username {
			found = u
		}
	})
	if found == nil {
		return core.User{}, store.ErrNotFound
	}
	return *found, nil
}

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, p := s.transactions.insert(t)
	p.ID = id
	return *p, nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.transactions.get(id)
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	return *p, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Transaction{}
	s.transactions.each(func(t *core.Transaction) {
		if t.UserID == userID {
			out = append(out, *t)
		}
	})
	return out, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.transactions.get(t.ID)
	if !ok {
		return store.ErrNotFound
	}
	*p = t
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.transactions.delete(id) {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTransactionsByUser(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.transactions.rows {
		if p != nil && p.UserID == userID {
			s.transactions.rows[i] = nil
		}
	}
	return nil
}

func (s *Store) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, p := s.incomes.insert(in)
	p.ID = id
	return *p, nil
}

func (s *Store) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.incomes.get(id)
	if !ok {
		return core.Income{}, store.ErrNotFound
	}
	return *p, nil
}

func (s *Store) ListIncomes(ctx context.Context, userID int64) ([]core.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Income{}
	s.incomes.each(func(in *core.Income) {
		if in.UserID == userID {
			out = append(out, *in)
		}
	})
	return out, nil
}

func (s *Store) UpdateIncome(ctx context.Context, in core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.incomes.get(in.ID)
	if !ok {
		return store.ErrNotFound
	}
	*p = in
	return nil
}

func (s *Store) DeleteIncome(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.incomes.delete(id) {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteIncomesByUser(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.incomes.rows {
		if p != nil && p.UserID == userID {
			s.incomes.rows[i] = nil
		}
	}
	return nil
}

func (s *Store) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, p := s.budgets.insert(b)
	p.ID = id
	return *p, nil
}

func (s *Store) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.budgets.get(id)
	if !ok {
		return core.Budget{}, store.ErrNotFound
	}
	return *p, nil
}

func (s *Store) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Budget{}
	s.budgets.each(func(b *core.Budget) {
		if b.UserID == userID {
			out = append(out, *b)
		}
	})
	return out, nil
}

func (s *Store) UpdateBudget(ctx context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.budgets.get(b.ID)
	if !ok {
		return store.ErrNotFound
	}
	*p = b
	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.budgets.delete(id) {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBudgetsByUser(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.budgets.rows {
		if p != nil && p.UserID == userID {
			s.budgets.rows[i] = nil
		}
	}
	return nil
}

func (s *Store) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, p := s.goals.insert(g)
	p.ID = id
	return *p, nil
}

func (s *Store) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.goals.get(id)
	if !ok {
		return core.Goal{}, store.ErrNotFound
	}
	return *p, nil
}

func (s *Store) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Goal{}
	s.goals.each(func(g *core.Goal) {
		if g.UserID == userID {
			out = append(out, *g)
		}
	})
	return out, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.goals.get(g.ID)
	if !ok {
		return store.ErrNotFound
	}
	*p = g
	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.goals.delete(id) {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteGoalsByUser(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.goals.rows {
		if p != nil && p.UserID == userID {
			s.goals.rows[i] = nil
		}
	}
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, p := s.categories.insert(c)
	p.ID = id
	return *p, nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.categories.get(id)
	if !ok {
		return core.Category{}, store.ErrNotFound
	}
	return *p, nil
}

func (s *Store) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Category{}
	s.categories.each(func(c *core.Category) {
		if c.UserID == userID {
			out = append(out, *c)
		}
	})
	return out, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.categories.get(c.ID)
	if !ok {
		return store.ErrNotFound
	}
	*p = c
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.categories.delete(id) {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCategoriesByUser(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.categories.rows {
		if p != nil && p.UserID == userID {
			s.categories.rows[i] = nil
		}
	}
	return nil
}

func (s *Store) CreateNotification(ctx context.Context, n core.Notification) (core.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.CreatedAt = s.now()
	id, p := s.notifications.insert(n)
	p.ID = id
	return *p, nil
}

func (s *Store) GetNotification(ctx context.Context, id int64) (core.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.notifications.get(id)
	if !ok {
		return core.Notification{}, store.ErrNotFound
	}
	return *p, nil
}

func (s *Store) ListNotifications(ctx context.Context, userID int64) ([]core.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Notification{}
	s.notifications.each(func(n *core.Notification) {
		if n.UserID == userID {
			out = append(out, *n)
		}
	})
	return out, nil
}

func (s *Store) UpdateNotification(ctx context.Context, n core.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.notifications.get(n.ID)
	if !ok {
		return store.ErrNotFound
	}
	created := p.CreatedAt
	*p = n
	p.CreatedAt = created
	return nil
}

func (s *Store) DeleteNotification(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.notifications.delete(id) {
		return store.ErrNotFound
	}
	return nil
}
