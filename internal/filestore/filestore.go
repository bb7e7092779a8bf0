// Package filestore persists the two collections as JSON documents
// under a data directory, mirroring the original flat key-value
// storage: load on start (missing file means an empty collection),
// whole-collection overwrite on every mutation.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"garasi/internal/core"
)

const (
	customersFile = "customers.json"
	expensesFile  = "expenses.json"
)

// Store holds both collections in memory and mirrors every mutation to
// disk. Writes go through a temp file and rename so a failed write
// never truncates the previous state.
type Store struct {
	mu        sync.Mutex
	dir       string
	customers []core.Customer
	expenses  []core.Expense
}

// Open loads the collections from dir, creating it when absent.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Store{dir: dir}
	if err := loadJSON(filepath.Join(dir, customersFile), &s.customers); err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	if err := loadJSON(filepath.Join(dir, expensesFile), &s.expenses); err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	slog.Info("File store opened",
		"dir", dir,
		"customers", len(s.customers),
		"expenses", len(s.expenses))
	return s, nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// saveJSON rewrites the whole collection atomically. Any failure is
// returned to the caller; a mutation whose save fails is rolled back
// by the caller so memory and disk stay consistent.
func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *Store) saveCustomers() error {
	return saveJSON(filepath.Join(s.dir, customersFile), s.customers)
}

func (s *Store) saveExpenses() error {
	return saveJSON(filepath.Join(s.dir, expensesFile), s.expenses)
}

func (s *Store) CreateCustomer(_ context.Context, c core.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customers = append(s.customers, c)
	if err := s.saveCustomers(); err != nil {
		s.customers = s.customers[:len(s.customers)-1]
		return err
	}
	return nil
}

func (s *Store) UpdateCustomer(_ context.Context, c core.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.customers {
		if s.customers[i].ID == c.ID {
			prev := s.customers[i]
			s.customers[i] = c
			if err := s.saveCustomers(); err != nil {
				s.customers[i] = prev
				return err
			}
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) DeleteCustomer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.customers {
		if s.customers[i].ID == id {
			prev := s.customers
			s.customers = append(append([]core.Customer{}, prev[:i]...), prev[i+1:]...)
			if err := s.saveCustomers(); err != nil {
				s.customers = prev
				return err
			}
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) GetCustomer(_ context.Context, id string) (core.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Customer{}, core.ErrNotFound
}

func (s *Store) ListCustomers(_ context.Context) ([]core.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Customer, len(s.customers))
	copy(out, s.customers)
	return out, nil
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expenses = append(s.expenses, e)
	if err := s.saveExpenses(); err != nil {
		s.expenses = s.expenses[:len(s.expenses)-1]
		return err
	}
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.expenses {
		if s.expenses[i].ID == id {
			prev := s.expenses
			s.expenses = append(append([]core.Expense{}, prev[:i]...), prev[i+1:]...)
			if err := s.saveExpenses(); err != nil {
				s.expenses = prev
				return err
			}
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out, nil
}
