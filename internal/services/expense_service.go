package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"garasi/internal/amqp"
	"garasi/internal/core"
	"garasi/internal/store"
)

// ExpenseInput carries the fields of a new operating-cost entry.
type ExpenseInput struct {
	Deskripsi string
	Harga     core.Money
	Tanggal   time.Time
}

// ExpenseService orchestrates expense mutations. Expenses are
// append-and-delete only; there is no in-place update.
type ExpenseService struct {
	store  store.ExpenseStore
	events *amqp.Client
}

func NewExpenseService(st store.ExpenseStore, events *amqp.Client) *ExpenseService {
	return &ExpenseService{store: st, events: events}
}

func (s *ExpenseService) Create(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	e := core.Expense{
		ID:        uuid.NewString(),
		Deskripsi: in.Deskripsi,
		Harga:     in.Harga,
		Tanggal:   core.Day(in.Tanggal),
	}
	e.Normalize()

	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	if err := s.store.CreateExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	s.publish(ctx, amqp.ActionCreate, e.ID)
	slog.InfoContext(ctx, "Expense created",
		"id", e.ID,
		"description", e.Deskripsi,
		"amount", e.Harga.Rupiah)
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.publish(ctx, amqp.ActionDelete, id)
	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx)
}

func (s *ExpenseService) publish(ctx context.Context, action, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishMutation(ctx, amqp.EntityExpense, action, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"action", action, "id", id, "error", err)
	}
}
