// Package billing implements the billing-cycle due-date engine.
//
// A lease starts at a given date and renews every N calendar months.
// The engine answers "what is the next due date, relative to a sampled
// now" and "how many whole days remain". All functions are pure: the
// caller samples now once per evaluation pass so that every lease in a
// rendering is compared against the identical instant.
package billing

import (
	"time"

	"garasi/internal/core"
)

// DueSoonWindowDays is the inclusive look-ahead used for the
// "due soon" classification.
const DueSoonWindowDays = 7

// AddMonths adds n calendar months to t with month-end clamping: when
// the original day-of-month does not exist in the target month, the
// result clamps to that month's last day. Jan 31 + 1 month is Feb 29
// (leap) or Feb 28, never Mar 2.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	// Normalize the target year/month first, then clamp the day.
	total := int(m) - 1 + n
	ty := y + total/12
	tm := total % 12
	if tm < 0 {
		tm += 12
		ty--
	}
	targetMonth := time.Month(tm + 1)
	last := lastDayOfMonth(ty, targetMonth)
	if d > last {
		d = last
	}
	return time.Date(ty, targetMonth, d, 0, 0, 0, 0, t.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextDueDate returns the next due date for a lease that started on
// start and renews every periodMonths months: the smallest date on the
// lease's cycle that is not strictly before now (day granularity).
// A start date in the future is returned unchanged. A non-positive
// period is treated as one month.
//
// Candidates are anchored to the start date's day-of-month: each one is
// start plus k whole periods, clamped independently. A Jan 31 lease is
// due Feb 29 then Mar 31; the anchor never decays to the clamped day.
func NextDueDate(start time.Time, periodMonths int, now time.Time) time.Time {
	if periodMonths <= 0 {
		periodMonths = 1
	}
	today := core.Day(now)
	start = core.Day(start)

	candidate := start
	for k := 1; today.After(candidate); k++ {
		candidate = AddMonths(start, k*periodMonths)
	}
	return candidate
}

// DaysUntil returns the whole-day difference between due and now.
// Negative when the due date has passed; the caller decides what
// "overdue" means.
func DaysUntil(due, now time.Time) int {
	return int(core.Day(due).Sub(core.Day(now)).Hours() / 24)
}

// DueWithin reports whether due falls inside [today, today+days]
// inclusive at day granularity.
func DueWithin(due, now time.Time, days int) bool {
	d := DaysUntil(due, now)
	return d >= 0 && d <= days
}

// FirstDueDate is the snapshot written at lease creation: the start
// date advanced by exactly one period. It is informational only;
// live queries always go through NextDueDate.
func FirstDueDate(start time.Time, periodMonths int) time.Time {
	if periodMonths <= 0 {
		periodMonths = 1
	}
	return AddMonths(core.Day(start), periodMonths)
}
