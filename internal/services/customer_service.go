// Package services provides business logic and orchestration over the
// store ports: customer and expense lifecycle, dashboard aggregation
// and report generation.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"garasi/internal/amqp"
	"garasi/internal/billing"
	"garasi/internal/core"
	"garasi/internal/store"
)

// CustomerInput carries the fields a caller may set on a lease.
// The service assigns the ID and the first-due-date snapshot.
type CustomerInput struct {
	Nama          string
	NoHP          string
	JenisMobil    string
	NoKendaraan   string
	TanggalMulai  time.Time
	RoomNumber    int
	FotoKendaraan string
	Harga         core.Money
	PeriodeBulan  int
}

// CustomerService orchestrates lease mutations: normalization,
// validation, the room-exclusivity policy, persistence and the
// optional mutation-event publish.
type CustomerService struct {
	store  store.CustomerStore
	events *amqp.Client
}

func NewCustomerService(st store.CustomerStore, events *amqp.Client) *CustomerService {
	return &CustomerService{store: st, events: events}
}

// Create registers a new lease. The room must not be held by another
// customer; the first due date is snapshotted as start plus one period.
func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (core.Customer, error) {
	c := customerFromInput(in)
	c.ID = uuid.NewString()

	if err := c.Validate(); err != nil {
		return core.Customer{}, err
	}
	if err := s.checkRoomFree(ctx, c.RoomNumber, ""); err != nil {
		return core.Customer{}, err
	}

	if err := s.store.CreateCustomer(ctx, c); err != nil {
		return core.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	s.publish(ctx, amqp.ActionCreate, c.ID)
	slog.InfoContext(ctx, "Customer created",
		"id", c.ID,
		"room", c.RoomNumber,
		"period_months", c.PeriodeBulan)
	return c, nil
}

// Update replaces every field of the lease except its ID. The room
// check excludes the record's own current room so an edit that keeps
// the room is accepted.
func (s *CustomerService) Update(ctx context.Context, id string, in CustomerInput) (core.Customer, error) {
	if _, err := s.store.GetCustomer(ctx, id); err != nil {
		return core.Customer{}, fmt.Errorf("load customer %s: %w", id, err)
	}

	c := customerFromInput(in)
	c.ID = id

	if err := c.Validate(); err != nil {
		return core.Customer{}, err
	}
	if err := s.checkRoomFree(ctx, c.RoomNumber, id); err != nil {
		return core.Customer{}, err
	}

	if err := s.store.UpdateCustomer(ctx, c); err != nil {
		return core.Customer{}, fmt.Errorf("update customer: %w", err)
	}

	s.publish(ctx, amqp.ActionUpdate, c.ID)
	slog.InfoContext(ctx, "Customer updated", "id", c.ID, "room", c.RoomNumber)
	return c, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	s.publish(ctx, amqp.ActionDelete, id)
	slog.InfoContext(ctx, "Customer deleted", "id", id)
	return nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (core.Customer, error) {
	return s.store.GetCustomer(ctx, id)
}

func (s *CustomerService) List(ctx context.Context) ([]core.Customer, error) {
	return s.store.ListCustomers(ctx)
}

// AvailableRooms returns the room numbers a form may offer: rooms not
// currently occupied, plus the record's own room when editing.
func (s *CustomerService) AvailableRooms(ctx context.Context, currentID string) ([]int, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	occupied := make(map[int]string, len(customers))
	for _, c := range customers {
		occupied[c.RoomNumber] = c.ID
	}

	rooms := make([]int, 0, core.TotalRooms)
	for n := 1; n <= core.TotalRooms; n++ {
		holder, taken := occupied[n]
		if !taken || holder == currentID {
			rooms = append(rooms, n)
		}
	}
	return rooms, nil
}

func (s *CustomerService) checkRoomFree(ctx context.Context, room int, excludeID string) error {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("list customers: %w", err)
	}
	if !RoomAvailable(customers, room, excludeID) {
		return core.ErrRoomOccupied
	}
	return nil
}

// RoomAvailable reports whether room may be assigned: it is free, or
// held by the record identified by excludeID (its own current room
// during an edit).
func RoomAvailable(customers []core.Customer, room int, excludeID string) bool {
	for _, c := range customers {
		if c.RoomNumber == room && c.ID != excludeID {
			return false
		}
	}
	return true
}

func (s *CustomerService) publish(ctx context.Context, action, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishMutation(ctx, amqp.EntityCustomer, action, id); err != nil {
		// Event publish is best-effort; the local write already succeeded.
		slog.ErrorContext(ctx, "Failed to publish customer event",
			"action", action, "id", id, "error", err)
	}
}

func customerFromInput(in CustomerInput) core.Customer {
	c := core.Customer{
		Nama:          in.Nama,
		NoHP:          in.NoHP,
		JenisMobil:    in.JenisMobil,
		NoKendaraan:   in.NoKendaraan,
		TanggalMulai:  core.Day(in.TanggalMulai),
		RoomNumber:    in.RoomNumber,
		FotoKendaraan: in.FotoKendaraan,
		Harga:         in.Harga,
		PeriodeBulan:  in.PeriodeBulan,
	}
	if c.PeriodeBulan <= 0 {
		c.PeriodeBulan = 1
	}
	c.Normalize()
	// Informational snapshot of the first cycle boundary. Live queries
	// recompute from (start, period, now).
	c.TanggalJatuhTempo = billing.FirstDueDate(c.TanggalMulai, c.PeriodeBulan)
	return c
}
