package domain

import (
	"sort"
	"time"
)

// Weekday is a day-of-week value of a restriction mask
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// AllWeekdays lists the week starting on Monday
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (w Weekday) order() int {
	for i, d := range AllWeekdays {
		if d == w {
			return i
		}
	}
	return -1
}

// IsValid reports whether w is one of the seven weekdays
func (w Weekday) IsValid() bool {
	return w.order() >= 0
}

// WeekdayOf maps a date to its weekday
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// NormalizeWeekdays sorts and deduplicates a mask.
// An empty mask means every day and is returned as the full week.
func NormalizeWeekdays(days []Weekday) []Weekday {
	if len(days) == 0 {
		return append([]Weekday(nil), AllWeekdays...)
	}
	seen := make(map[Weekday]bool, len(days))
	out := make([]Weekday, 0, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].order() < out[j].order() })
	return out
}

// AppliesOnWeekday reports whether the mask includes day; an empty mask includes every day
func AppliesOnWeekday(mask []Weekday, day Weekday) bool {
	if len(mask) == 0 {
		return true
	}
	for _, d := range mask {
		if d == day {
			return true
		}
	}
	return false
}

// WeekdaysIntersect reports whether two masks share a day
func WeekdaysIntersect(a, b []Weekday) bool {
	for _, d := range AllWeekdays {
		if AppliesOnWeekday(a, d) && AppliesOnWeekday(b, d) {
			return true
		}
	}
	return false
}

// SubtractWeekdays returns days of a not present in b
func SubtractWeekdays(a, b []Weekday) []Weekday {
	out := make([]Weekday, 0, 7)
	for _, d := range AllWeekdays {
		if AppliesOnWeekday(a, d) && !AppliesOnWeekday(b, d) {
			out = append(out, d)
		}
	}
	return out
}

// SameWeekdays compares two masks as sets
func SameWeekdays(a, b []Weekday) bool {
	for _, d := range AllWeekdays {
		if AppliesOnWeekday(a, d) != AppliesOnWeekday(b, d) {
			return false
		}
	}
	return true
}

// DateOnly truncates t to a UTC calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDate builds a UTC calendar date
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

// EachDay returns every calendar date in [from, to]
func EachDay(from, to time.Time) []time.Time {
	from, to = DateOnly(from), DateOnly(to)
	if to.Before(from) {
		return nil
	}
	days := make([]time.Time, 0, DaysBetween(from, to)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DaysBetween returns the number of whole days from a to b
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// MaxDate returns the later of two dates
func MaxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// MinDate returns the earlier of two dates
func MinDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
