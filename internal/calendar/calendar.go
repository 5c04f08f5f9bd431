// Package calendar builds the month-grid view model from raw tap events and
// provides the month/day navigation rules. Everything here is a pure
// transformation: callers inject the reference time and location, which keeps
// the date arithmetic deterministic under test.
package calendar

import (
	"sort"
	"time"

	"github.com/jackrosenthal/myride-explorer/internal/domain"
)

// BuildMonthGrid buckets events into a 7-column month grid for the given
// year/month, using loc for calendar-day boundaries.
//
// The grid starts with padding cells for the tail of the previous month
// (one per weekday before the 1st, Sunday-first), then one cell per day of
// the target month carrying the count of events whose local date matches,
// then padding cells for the head of the next month up to the next multiple
// of seven. Padding cells always have a zero boarding count.
func BuildMonthGrid(events []domain.TapEvent, year, month int, loc *time.Location) []domain.DayCell {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	daysInMonth := DaysInMonth(year, month)
	firstWeekday := int(first.Weekday()) // 0=Sunday .. 6=Saturday

	// Per-day counts for the target month. Events outside the month are
	// ignored even if the fetch range was sloppy.
	counts := make(map[int]int)
	for _, ev := range events {
		t := ev.Time(loc)
		if t.Year() == year && int(t.Month()) == month {
			counts[t.Day()]++
		}
	}

	cells := make([]domain.DayCell, 0, 42)

	// Leading padding: trailing days of the previous month.
	prevYear, prevMonth := PrevMonth(year, month)
	daysInPrev := DaysInMonth(prevYear, prevMonth)
	for i := firstWeekday - 1; i >= 0; i-- {
		cells = append(cells, domain.DayCell{Date: daysInPrev - i})
	}

	for day := 1; day <= daysInMonth; day++ {
		cells = append(cells, domain.DayCell{
			Date:           day,
			BoardingCount:  counts[day],
			IsCurrentMonth: true,
		})
	}

	// Trailing padding: leading days of the next month.
	total := ((len(cells) + 6) / 7) * 7
	for next := 1; len(cells) < total; next++ {
		cells = append(cells, domain.DayCell{Date: next})
	}

	return cells
}

// DaysInMonth returns the number of days in the given month, with Gregorian
// leap-year handling delegated to the time package (day 0 of the next month
// normalizes to the last day of this one).
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PrevMonth returns the year/month preceding the given one,
// rolling January back to December.
func PrevMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// NextMonth returns the year/month following the given one,
// rolling December over to January.
func NextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// IsCurrentOrFutureMonth reports whether year/month is the month containing
// now or later. Next-month navigation is disabled for such months.
func IsCurrentOrFutureMonth(year, month int, now time.Time) bool {
	return year > now.Year() ||
		(year == now.Year() && month >= int(now.Month()))
}

// IsFutureDay reports whether the given calendar day is strictly after the
// day containing now. A grid cell is clickable only if it belongs to the
// displayed month and is not a future day.
func IsFutureDay(year, month, day int, now time.Time) bool {
	ny, nm, nd := now.Date()
	if year != ny {
		return year > ny
	}
	if month != int(nm) {
		return month > int(nm)
	}
	return day > nd
}

// IsToday reports whether the given calendar day is the day containing now.
// Next-day navigation is disabled on today.
func IsToday(year, month, day int, now time.Time) bool {
	ny, nm, nd := now.Date()
	return year == ny && month == int(nm) && day == nd
}

// PrevDay returns the calendar day before the given one in loc,
// crossing month and year boundaries as needed.
func PrevDay(year, month, day int, loc *time.Location) (int, int, int) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	return t.Year(), int(t.Month()), t.Day()
}

// NextDay returns the calendar day after the given one in loc.
func NextDay(year, month, day int, loc *time.Location) (int, int, int) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return t.Year(), int(t.Month()), t.Day()
}

// SortEventsByTime orders events by ascending server timestamp in place.
// The sort is stable: ties keep their fetched order.
func SortEventsByTime(events []domain.TapEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].ServerTimestamp < events[j].ServerTimestamp
	})
}
