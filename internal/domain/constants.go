package domain

// Default configuration values
const (
	DefaultBatchSize                = 500
	DefaultAutomationLockTTLSeconds = 60
	DefaultAutomationWindowDays     = 365
	DefaultCalendarMaxDays          = 731 // 2 years
	DefaultMinLength                = 1
)

// Business validation constants
const (
	MaxCandidatesPerRequest = 10000
	MaxLengthOfStay         = 999
	MaxIDLength             = 64
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AllRestrictionTypes lists the restriction types by ascending priority
var AllRestrictionTypes = []RestrictionType{
	ClosedToArrival,
	ClosedToDeparture,
	ClosedToStay,
}
