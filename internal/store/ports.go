// Package store defines the persistence ports the rest of the
// application programs against. Backends (SQLite, JSON file store)
// implement these interfaces.
package store

import (
	"context"

	"garasi/internal/core"
)

type (
	CustomerStore interface {
		CreateCustomer(ctx context.Context, c core.Customer) error
		UpdateCustomer(ctx context.Context, c core.Customer) error
		DeleteCustomer(ctx context.Context, id string) error
		GetCustomer(ctx context.Context, id string) (core.Customer, error)
		// ListCustomers returns all customers in insertion order.
		ListCustomers(ctx context.Context) ([]core.Customer, error)
	}

	ExpenseStore interface {
		CreateExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, id string) error
		// ListExpenses returns all expenses in insertion order.
		ListExpenses(ctx context.Context) ([]core.Expense, error)
	}

	// Store is the combined port a backend must provide.
	Store interface {
		CustomerStore
		ExpenseStore
	}
)
