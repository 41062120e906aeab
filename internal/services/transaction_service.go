package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/amqp"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"
)

// Budget alert thresholds, as fractions of the budget amount.
const nearingThreshold = 0.8

// EventPublisher publishes transaction events for the mirror worker.
// *amqp.Client satisfies it; a nil publisher disables publication.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, transactionID int64, action amqp.EventAction) error
}

// TransactionService wraps transaction writes that carry side effects:
// creating evaluates budget alerts and publishes a created event, deleting
// publishes a deleted event. Reads and partial updates go straight to the
// store.
type TransactionService struct {
	store     store.Store
	publisher EventPublisher
}

func NewTransactionService(st store.Store, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     st,
		publisher: publisher,
	}
}

// Create saves the transaction, then evaluates budget alerts for expenses
// and publishes a created event. Alert and publish failures are logged,
// never surfaced; the save already succeeded.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if created.Type == core.TypeExpense {
		s.evaluateBudgetAlerts(ctx, created)
	}
	s.publishEvent(ctx, created.ID, amqp.ActionCreated)

	return created, nil
}

// Delete removes the transaction and publishes a deleted event.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publishEvent(ctx, id, amqp.ActionDeleted)
	return nil
}

func (s *TransactionService) publishEvent(ctx context.Context, id int64, action amqp.EventAction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"transaction_id", id,
			"action", string(action),
			"error", err)
	}
}

// evaluateBudgetAlerts notifies the user when the new expense pushes the
// spending of its category across 80% or 100% of a matching budget. Each
// threshold fires only on the write that crosses it: the total before this
// expense must still be below the line.
func (s *TransactionService) evaluateBudgetAlerts(ctx context.Context, tx core.Transaction) {
	budgets, err := s.store.ListBudgets(ctx, tx.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list budgets for alert check", "user_id", tx.UserID, "error", err)
		return
	}

	var matching []core.Budget
	for _, b := range budgets {
		if b.Category == tx.Category {
			matching = append(matching, b)
		}
	}
	if len(matching) == 0 {
		return
	}

	txs, err := s.store.ListTransactions(ctx, tx.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list transactions for alert check", "user_id", tx.UserID, "error", err)
		return
	}

	for _, b := range matching {
		resolver, err := GetWindowResolver(b.Period)
		if err != nil {
			slog.WarnContext(ctx, "Skipping budget with unknown period", "budget_id", b.ID, "period", string(b.Period))
			continue
		}
		start, end := resolver.Window(tx.Date)

		// The new expense is already stored, so the fold yields the total
		// after this write.
		var after float64
		for _, t := range txs {
			if t.Type == core.TypeExpense && t.Category == b.Category && inWindow(t.Date, start, end) {
				after += t.Amount
			}
		}
		before := after - tx.Amount

		switch {
		case before <= b.Amount && after > b.Amount:
			s.notify(ctx, tx.UserID, fmt.Sprintf(
				"Budget exceeded: %s spending is %.2f, over your %s budget of %.2f",
				b.Category, after, b.Period, b.Amount))
		case before < nearingThreshold*b.Amount && after >= nearingThreshold*b.Amount:
			s.notify(ctx, tx.UserID, fmt.Sprintf(
				"Budget alert: %s spending reached %.2f of your %s budget of %.2f",
				b.Category, after, b.Period, b.Amount))
		}
	}
}

func (s *TransactionService) notify(ctx context.Context, userID int64, message string) {
	n, err := s.store.CreateNotification(ctx, core.Notification{
		UserID:  userID,
		Message: message,
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create budget notification", "user_id", userID, "error", err)
		return
	}
	slog.InfoContext(ctx, "Budget notification created",
		"user_id", userID,
		"notification_id", n.ID,
		"message", message)
}
