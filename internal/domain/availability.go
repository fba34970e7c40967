package domain

import "time"

// RoomUnitStatus is the per-date state of a physical room unit
type RoomUnitStatus string

const (
	RoomUnitAvailable    RoomUnitStatus = "AVAILABLE"
	RoomUnitAssigned     RoomUnitStatus = "ASSIGNED"
	RoomUnitBlocked      RoomUnitStatus = "BLOCKED"
	RoomUnitOutOfOrder   RoomUnitStatus = "OUT_OF_ORDER"
	RoomUnitOutOfService RoomUnitStatus = "OUT_OF_SERVICE"
)

// RoomUnitAvailability holds the per-date status of one room unit assigned to a room product
type RoomUnitAvailability struct {
	RoomUnitID    string
	RoomProductID string
	Statuses      map[time.Time]RoomUnitStatus // key = DateOnly
}

// IsAvailable returns true if the unit is AVAILABLE on date; missing dates are unavailable
func (a *RoomUnitAvailability) IsAvailable(date time.Time) bool {
	return a.Statuses[DateOnly(date)] == RoomUnitAvailable
}

// CalendarDay is the effective restriction of a single date
type CalendarDay struct {
	Date        time.Time
	Restriction *Restriction // nil = no restriction applies
}

// RatePlanMapping pairs a room product with a sellable rate plan of the PMS
type RatePlanMapping struct {
	RoomProductID string
	RatePlanID    string
	PmsCode       string
}
