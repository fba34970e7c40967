package calendar

import (
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
)

// Combine folds the restrictions applicable on date into one effective restriction.
// Rows not covering date are ignored. Values and type of the result do not depend
// on input order. Returns nil when nothing applies.
func Combine(rows []*domain.Restriction, date time.Time, policy Policy) *domain.Restriction {
	date = domain.DateOnly(date)

	var block, combined *domain.Restriction

	for _, r := range rows {
		if !r.Covers(date) {
			continue
		}

		if r.IsPureBlocking() {
			if block == nil || policy.pickType(block.Type, r.Type) != block.Type {
				block = r
			}
			continue
		}

		if combined == nil {
			combined = dayRow(r, date)
			combined.Type = r.Type
		} else {
			combined.Type = policy.pickType(combined.Type, r.Type)
		}

		for _, f := range policy.minFields {
			foldField(combined, r, f, policy.pickMin)
		}
		for _, f := range policy.maxFields {
			foldField(combined, r, f, policy.pickMax)
		}
	}

	if block != nil {
		block = dayRow(block, date)
	}

	return policy.resolve(block, combined)
}

// Build returns one CalendarDay per date in [from, to]
func Build(rows []*domain.Restriction, from, to time.Time, policy Policy) []domain.CalendarDay {
	days := domain.EachDay(from, to)
	out := make([]domain.CalendarDay, 0, len(days))

	for _, d := range days {
		out = append(out, domain.CalendarDay{
			Date:        d,
			Restriction: Combine(rows, d, policy),
		})
	}

	return out
}

// foldField combines field f of r into acc; absent values never win
func foldField(acc, r *domain.Restriction, f domain.Field, pick func(a, b int) int) {
	theirs := r.Get(f)
	if theirs == nil {
		return
	}

	ours := acc.Get(f)
	if ours == nil || pick(*ours, *theirs) != *ours {
		acc.Set(f, theirs)
		if src := r.SourceOf(f); src != "" {
			acc.SetSource(f, src)
		} else {
			delete(acc.Source, f)
		}
	}
}

// dayRow starts a one-day row of r's hotel without scope and numeric fields
func dayRow(r *domain.Restriction, date time.Time) *domain.Restriction {
	return &domain.Restriction{
		HotelID:  r.HotelID,
		FromDate: date,
		ToDate:   date,
		Weekdays: []domain.Weekday{domain.WeekdayOf(date)},
		Type:     r.Type,
	}
}
