package services

import (
	"testing"
	"time"

	"garasi/internal/core"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func lease(id string, room int, start time.Time, period int, harga int64) core.Customer {
	return core.Customer{
		ID:           id,
		Nama:         "Customer " + id,
		NoHP:         "0812000",
		JenisMobil:   "Toyota Avanza",
		NoKendaraan:  "B 1 A",
		TanggalMulai: start,
		RoomNumber:   room,
		Harga:        core.Money{Rupiah: harga},
		PeriodeBulan: period,
	}
}

func TestBuildSummary(t *testing.T) {
	now := date(2024, time.March, 20)

	customers := []core.Customer{
		lease("a", 1, date(2024, time.January, 15), 1, 500000),
		lease("b", 2, date(2024, time.February, 1), 1, 750000),
	}
	expenses := []core.Expense{
		{ID: "e1", Deskripsi: "Bayar Listrik", Harga: core.Money{Rupiah: 200000}, Tanggal: date(2024, time.March, 5)},
		{ID: "e2", Deskripsi: "Servis Pompa", Harga: core.Money{Rupiah: 150000}, Tanggal: date(2024, time.February, 28)},
	}

	s := BuildSummary(customers, expenses, now)

	if s.OccupiedRooms != 2 {
		t.Errorf("OccupiedRooms = %d, want 2", s.OccupiedRooms)
	}
	if s.EmptyRooms != core.TotalRooms-2 {
		t.Errorf("EmptyRooms = %d, want %d", s.EmptyRooms, core.TotalRooms-2)
	}
	if s.GrossRevenue.Rupiah != 1250000 {
		t.Errorf("GrossRevenue = %d, want 1250000", s.GrossRevenue.Rupiah)
	}
	if s.MonthExpenses.Rupiah != 200000 {
		t.Errorf("MonthExpenses = %d, want 200000 (February expense must be excluded)", s.MonthExpenses.Rupiah)
	}
	if s.NetRevenue.Rupiah != 1050000 {
		t.Errorf("NetRevenue = %d, want 1050000", s.NetRevenue.Rupiah)
	}
}

func TestBuildSummary_RevenueIdentity(t *testing.T) {
	now := date(2024, time.March, 20)

	states := []struct {
		name      string
		customers []core.Customer
		expenses  []core.Expense
	}{
		{"both empty", nil, nil},
		{"customers only", []core.Customer{lease("a", 1, date(2024, time.January, 1), 1, 300000)}, nil},
		{"expenses exceed revenue", nil, []core.Expense{
			{ID: "e", Deskripsi: "Renovasi", Harga: core.Money{Rupiah: 900000}, Tanggal: now},
		}},
	}

	for _, tt := range states {
		t.Run(tt.name, func(t *testing.T) {
			s := BuildSummary(tt.customers, tt.expenses, now)
			if s.NetRevenue.Rupiah != s.GrossRevenue.Rupiah-s.MonthExpenses.Rupiah {
				t.Errorf("net %d != gross %d - expenses %d",
					s.NetRevenue.Rupiah, s.GrossRevenue.Rupiah, s.MonthExpenses.Rupiah)
			}
		})
	}
}

func TestDueSoon_Boundary(t *testing.T) {
	now := date(2024, time.March, 20)

	customers := []core.Customer{
		// Due exactly today + 7 (started Feb 27, monthly -> Mar 27).
		lease("inside", 1, date(2024, time.February, 27), 1, 100),
		// Due today + 8 (Mar 28): excluded.
		lease("outside", 2, date(2024, time.February, 28), 1, 100),
		// Due today: included.
		lease("today", 3, date(2024, time.February, 20), 1, 100),
	}

	entries := DueSoon(customers, now)
	if len(entries) != 2 {
		t.Fatalf("len(DueSoon) = %d, want 2", len(entries))
	}
	// Ascending by due date: today before today+7.
	if entries[0].Customer.ID != "today" || entries[1].Customer.ID != "inside" {
		t.Errorf("order = [%s %s], want [today inside]", entries[0].Customer.ID, entries[1].Customer.ID)
	}
	if entries[0].DaysLeft != 0 {
		t.Errorf("DaysLeft for due-today = %d, want 0", entries[0].DaysLeft)
	}
	if entries[1].DaysLeft != 7 {
		t.Errorf("DaysLeft for boundary = %d, want 7", entries[1].DaysLeft)
	}
}

func TestDueSoon_StableTies(t *testing.T) {
	now := date(2024, time.March, 20)

	// Both due Mar 25; collection order must be preserved.
	customers := []core.Customer{
		lease("first", 1, date(2024, time.February, 25), 1, 100),
		lease("second", 2, date(2024, time.January, 25), 1, 100),
	}

	entries := DueSoon(customers, now)
	if len(entries) != 2 {
		t.Fatalf("len(DueSoon) = %d, want 2", len(entries))
	}
	if entries[0].Customer.ID != "first" || entries[1].Customer.ID != "second" {
		t.Errorf("tie order = [%s %s], want collection order", entries[0].Customer.ID, entries[1].Customer.ID)
	}
}

func TestRecentExpenses(t *testing.T) {
	var expenses []core.Expense
	for i := 1; i <= 12; i++ {
		expenses = append(expenses, core.Expense{
			ID:      string(rune('a' + i - 1)),
			Tanggal: date(2024, time.January, i),
		})
	}

	recent := RecentExpenses(expenses, 10)
	if len(recent) != 10 {
		t.Fatalf("len = %d, want 10", len(recent))
	}
	if !recent[0].Tanggal.Equal(date(2024, time.January, 12)) {
		t.Errorf("first entry = %v, want newest", recent[0].Tanggal)
	}
	if !recent[9].Tanggal.Equal(date(2024, time.January, 3)) {
		t.Errorf("last entry = %v, want Jan 3", recent[9].Tanggal)
	}

	// Original slice order untouched.
	if !expenses[0].Tanggal.Equal(date(2024, time.January, 1)) {
		t.Error("input slice was reordered")
	}
}

func TestRecentExpenses_FewerThanLimit(t *testing.T) {
	expenses := []core.Expense{
		{ID: "a", Tanggal: date(2024, time.January, 2)},
		{ID: "b", Tanggal: date(2024, time.January, 5)},
	}
	recent := RecentExpenses(expenses, 10)
	if len(recent) != 2 {
		t.Fatalf("len = %d, want 2", len(recent))
	}
	if recent[0].ID != "b" {
		t.Errorf("first = %s, want b", recent[0].ID)
	}
}

func TestRoomStatuses(t *testing.T) {
	customers := []core.Customer{
		lease("a", 3, date(2024, time.January, 1), 1, 100),
		lease("b", 30, date(2024, time.January, 1), 1, 100),
	}

	grid := RoomStatuses(customers)
	if len(grid) != core.TotalRooms {
		t.Fatalf("len(grid) = %d, want %d", len(grid), core.TotalRooms)
	}
	if !grid[2].Occupied || grid[2].Customer == nil || grid[2].Customer.ID != "a" {
		t.Error("room 3 must be occupied by customer a")
	}
	if !grid[29].Occupied {
		t.Error("room 30 must be occupied")
	}
	if grid[0].Occupied {
		t.Error("room 1 must be empty")
	}
}

func TestSearchCustomers(t *testing.T) {
	customers := []core.Customer{
		{ID: "1", Nama: "Budi Santoso", NoKendaraan: "B 1234 XYZ", RoomNumber: 7},
		{ID: "2", Nama: "Siti Aminah", NoKendaraan: "D 88 AA", RoomNumber: 12},
	}

	tests := []struct {
		term string
		want []string
	}{
		{"budi", []string{"1"}},
		{"1234", []string{"1"}},
		{"d 88", []string{"2"}},
		{"12", []string{"1", "2"}}, // plate of 1, room of 2
		{"", []string{"1", "2"}},
		{"none", nil},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := SearchCustomers(customers, tt.term)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("result[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}
