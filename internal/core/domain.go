package core

import (
	"errors"
	"strings"
	"time"
)

// TotalRooms is the fixed number of storage rooms in the garage.
// Room numbers run 1..TotalRooms and at most one active customer may
// hold a room at any time.
const TotalRooms = 30

type (
	// Customer is a lease record: one customer parking one vehicle in
	// one room under a recurring billing period.
	Customer struct {
		ID                string    `json:"id"`
		Nama              string    `json:"nama"`
		NoHP              string    `json:"noHP"`
		JenisMobil        string    `json:"jenisMobil"`
		NoKendaraan       string    `json:"noKendaraan"`
		TanggalMulai      time.Time `json:"tanggalMulai"`
		TanggalJatuhTempo time.Time `json:"tanggalJatuhTempo"`
		RoomNumber        int       `json:"roomNumber"`
		FotoKendaraan     string    `json:"fotoKendaraan,omitempty"`
		Harga             Money     `json:"harga"`
		PeriodeBulan      int       `json:"periodeBulan"`
	}

	// Expense is an operating-cost entry attributed to a date.
	Expense struct {
		ID        string    `json:"id"`
		Deskripsi string    `json:"deskripsi"`
		Harga     Money     `json:"harga"`
		Tanggal   time.Time `json:"tanggal"`
	}
)

var (
	ErrEmptyNama        = errors.New("empty customer name")
	ErrEmptyNoHP        = errors.New("empty phone number")
	ErrEmptyJenisMobil  = errors.New("empty vehicle type")
	ErrEmptyNoKendaraan = errors.New("empty plate number")
	ErrInvalidRoom      = errors.New("room number out of range")
	ErrRoomOccupied     = errors.New("room already occupied")
	ErrInvalidStartDate = errors.New("invalid start date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDeskripsi   = errors.New("empty description")
	ErrDeskripsiTooLong = errors.New("description too long (max 200 characters)")
	ErrInvalidTanggal   = errors.New("invalid expense date")
	ErrNotFound         = errors.New("record not found")
)

// Period returns the billing period in months, treating absent or
// non-positive stored values as one month.
func (c Customer) Period() int {
	if c.PeriodeBulan <= 0 {
		return 1
	}
	return c.PeriodeBulan
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.Nama) == "" {
		return ErrEmptyNama
	}
	if strings.TrimSpace(c.NoHP) == "" {
		return ErrEmptyNoHP
	}
	if strings.TrimSpace(c.JenisMobil) == "" {
		return ErrEmptyJenisMobil
	}
	if strings.TrimSpace(c.NoKendaraan) == "" {
		return ErrEmptyNoKendaraan
	}
	if c.RoomNumber < 1 || c.RoomNumber > TotalRooms {
		return ErrInvalidRoom
	}
	if c.TanggalMulai.IsZero() {
		return ErrInvalidStartDate
	}
	if err := c.Harga.Validate(); err != nil {
		return err
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Deskripsi) == "" {
		return ErrEmptyDeskripsi
	}
	if len(e.Deskripsi) > 200 {
		return ErrDeskripsiTooLong
	}
	if err := e.Harga.Validate(); err != nil {
		return err
	}
	if e.Tanggal.IsZero() {
		return ErrInvalidTanggal
	}
	return nil
}

// Normalize applies the input normalization the intake form performs:
// name and vehicle type are title-cased, the plate number upper-cased.
func (c *Customer) Normalize() {
	c.Nama = TitleWords(c.Nama)
	c.JenisMobil = TitleWords(c.JenisMobil)
	c.NoKendaraan = strings.ToUpper(strings.TrimSpace(c.NoKendaraan))
	c.NoHP = strings.TrimSpace(c.NoHP)
}

// Normalize title-cases the expense description.
func (e *Expense) Normalize() {
	e.Deskripsi = TitleWords(e.Deskripsi)
}

// TitleWords lower-cases the string and upper-cases the first letter of
// every word.
func TitleWords(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		if startOfWord && r >= 'a' && r <= 'z' {
			b.WriteRune(r - 'a' + 'A')
		} else {
			b.WriteRune(r)
		}
		startOfWord = r == ' ' || r == '\t' || r == '-' || r == '.'
	}
	return b.String()
}

// Day truncates a time to calendar-day granularity in its location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameMonth reports whether two dates fall in the same calendar month
// and year.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
