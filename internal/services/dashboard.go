package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"garasi/internal/billing"
	"garasi/internal/core"
)

type (
	// DueSoonEntry pairs a lease with its recomputed next due date.
	DueSoonEntry struct {
		Customer    core.Customer `json:"customer"`
		NextDueDate time.Time     `json:"nextDueDate"`
		DaysLeft    int           `json:"daysLeft"`
	}

	// Summary is the dashboard stat block for one sampled now.
	Summary struct {
		OccupiedRooms int        `json:"occupiedRooms"`
		EmptyRooms    int        `json:"emptyRooms"`
		DueSoonCount  int        `json:"dueSoonCount"`
		GrossRevenue  core.Money `json:"grossRevenue"`
		MonthExpenses core.Money `json:"monthExpenses"`
		NetRevenue    core.Money `json:"netRevenue"`
	}

	// RoomStatus describes one slot of the room grid.
	RoomStatus struct {
		Number   int            `json:"number"`
		Occupied bool           `json:"occupied"`
		Customer *core.Customer `json:"customer,omitempty"`
	}
)

// BuildSummary derives the dashboard figures from the raw collections.
// Gross revenue is the current run-rate (sum of every active lease's
// monthly price, not date-filtered); expenses are filtered to the
// calendar month containing now. Net may be negative.
func BuildSummary(customers []core.Customer, expenses []core.Expense, now time.Time) Summary {
	occupied := len(customers)

	var gross int64
	for _, c := range customers {
		gross += c.Harga.Rupiah
	}

	var month int64
	for _, e := range expenses {
		if core.SameMonth(e.Tanggal, now) {
			month += e.Harga.Rupiah
		}
	}

	return Summary{
		OccupiedRooms: occupied,
		EmptyRooms:    core.TotalRooms - occupied,
		DueSoonCount:  len(DueSoon(customers, now)),
		GrossRevenue:  core.Money{Rupiah: gross},
		MonthExpenses: core.Money{Rupiah: month},
		NetRevenue:    core.Money{Rupiah: gross - month},
	}
}

// DueSoon returns the leases whose next due date falls within the
// seven-day window starting today, ascending by due date. Ties keep
// the collection order.
func DueSoon(customers []core.Customer, now time.Time) []DueSoonEntry {
	entries := make([]DueSoonEntry, 0, len(customers))
	for _, c := range customers {
		due := billing.NextDueDate(c.TanggalMulai, c.Period(), now)
		if !billing.DueWithin(due, now, billing.DueSoonWindowDays) {
			continue
		}
		entries = append(entries, DueSoonEntry{
			Customer:    c,
			NextDueDate: due,
			DaysLeft:    billing.DaysUntil(due, now),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].NextDueDate.Before(entries[j].NextDueDate)
	})
	return entries
}

// MonthExpenses filters the expenses attributed to the calendar month
// containing now, preserving collection order.
func MonthExpenses(expenses []core.Expense, now time.Time) []core.Expense {
	var out []core.Expense
	for _, e := range expenses {
		if core.SameMonth(e.Tanggal, now) {
			out = append(out, e)
		}
	}
	return out
}

// RecentExpenses returns at most limit expenses, newest date first.
// Ties keep the collection order.
func RecentExpenses(expenses []core.Expense, limit int) []core.Expense {
	out := make([]core.Expense, len(expenses))
	copy(out, expenses)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Tanggal.After(out[j].Tanggal)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RoomStatuses builds the full 1..TotalRooms grid with occupants.
func RoomStatuses(customers []core.Customer) []RoomStatus {
	byRoom := make(map[int]core.Customer, len(customers))
	for _, c := range customers {
		byRoom[c.RoomNumber] = c
	}

	grid := make([]RoomStatus, 0, core.TotalRooms)
	for n := 1; n <= core.TotalRooms; n++ {
		status := RoomStatus{Number: n}
		if c, ok := byRoom[n]; ok {
			status.Occupied = true
			cc := c
			status.Customer = &cc
		}
		grid = append(grid, status)
	}
	return grid
}

// SearchCustomers filters by case-insensitive substring match on name,
// plate number, or room number.
func SearchCustomers(customers []core.Customer, term string) []core.Customer {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return customers
	}
	var out []core.Customer
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.Nama), term) ||
			strings.Contains(strings.ToLower(c.NoKendaraan), term) ||
			strings.Contains(strconv.Itoa(c.RoomNumber), term) {
			out = append(out, c)
		}
	}
	return out
}
