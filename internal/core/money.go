// Package core holds the garage domain model: customers, expenses,
// rupiah amounts and the formatting conventions shared by the report
// and the API.
package core

import (
	"strconv"
	"strings"
	"time"
)

// Money is an amount in whole rupiah. IDR carries no fractional unit,
// so the smallest representable amount is Rp 1.
type Money struct {
	Rupiah int64 `json:"rupiah"`
}

func (m Money) Validate() error {
	if m.Rupiah <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ParseAmount converts user input to rupiah the way the intake form
// does: every non-digit character is stripped, the remaining digits are
// the amount. "Rp 1.500.000" and "1500000" both yield 1500000.
func ParseAmount(s string) (Money, error) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return Money{}, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if v <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Rupiah: v}, nil
}

// FormatRupiah renders an amount with id-ID dot grouping: Rp 1.500.000.
// Negative amounts keep the sign in front of the currency marker.
func FormatRupiah(rupiah int64) string {
	neg := rupiah < 0
	if neg {
		rupiah = -rupiah
	}
	digits := strconv.FormatInt(rupiah, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}

// String implements fmt.Stringer.
func (m Money) String() string {
	return FormatRupiah(m.Rupiah)
}

var bulanIndonesia = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// MonthName returns the Indonesian name of a month.
func MonthName(m time.Month) string {
	return bulanIndonesia[int(m)-1]
}

// FormatDate renders a date the way the original report does:
// two-digit day, Indonesian month name, year ("05 Januari 2024").
func FormatDate(t time.Time) string {
	return t.Format("02") + " " + MonthName(t.Month()) + " " + t.Format("2006")
}

// FormatMonthYear renders "Januari 2024" for report headers.
func FormatMonthYear(t time.Time) string {
	return MonthName(t.Month()) + " " + t.Format("2006")
}
