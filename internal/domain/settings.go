package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// RatePlanDerivedSetting links a derived rate plan to its parent.
// Restrictions of the parent are projected onto the derived plan when
// FollowDailyRestriction is set, limited to InheritedRestrictionFields.
type RatePlanDerivedSetting struct {
	ID                         int64
	HotelID                    string
	DerivedRatePlanID          string
	ParentRatePlanID           string
	FollowDailyRestriction     bool
	InheritedRestrictionFields []Field
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// Inherits reports whether the derived plan takes field f from its parent
func (s *RatePlanDerivedSetting) Inherits(f Field) bool {
	for _, inherited := range s.InheritedRestrictionFields {
		if inherited == f {
			return true
		}
	}
	return false
}

// GapFillMode decides how the automated minimum reacts to short availability streaks
type GapFillMode string

const (
	// GapFillFilling caps the default minimum at the computed maximum so short gaps stay sellable
	GapFillFilling GapFillMode = "FILLING"
	// GapFillMaximum never reduces the configured minimum; only the maximum shrinks
	GapFillMaximum GapFillMode = "MAXIMUM"
)

// IsValid reports whether m is a known mode
func (m GapFillMode) IsValid() bool {
	return m == GapFillFilling || m == GapFillMaximum
}

// AutomationSettings are the defaults used by LOS automation
type AutomationSettings struct {
	DefaultMinLength *int        `json:"defaultMinLength,omitempty"`
	DefaultMaxLength *int        `json:"defaultMaxLength,omitempty"`
	MinAdv           *int        `json:"minAdv,omitempty"`
	MaxAdv           *int        `json:"maxAdv,omitempty"`
	GapFillMode      GapFillMode `json:"gapFillMode"`
}

// Value implements driver.Valuer
func (s AutomationSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner
func (s *AutomationSettings) Scan(src interface{}) error {
	data, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	return json.Unmarshal(data, s)
}

// MinLengthOrDefault returns the configured default minimum or DefaultMinLength
func (s AutomationSettings) MinLengthOrDefault() int {
	if s.DefaultMinLength == nil {
		return DefaultMinLength
	}
	return *s.DefaultMinLength
}

// RestrictionAutomationSetting enables LOS automation for a room product or rate plan
type RestrictionAutomationSetting struct {
	ID            int64
	HotelID       string
	RoomProductID *string // NULL = setting for a rate plan
	RatePlanID    *string // NULL = setting for a room product
	IsEnabled     bool
	Settings      AutomationSettings
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsRoomProductSetting returns true if the setting targets a room product
func (s *RestrictionAutomationSetting) IsRoomProductSetting() bool {
	return s.RoomProductID != nil && s.RatePlanID == nil
}

// HotelRestrictionConfig is the hotel-level configuration of the engine
type HotelRestrictionConfig struct {
	HotelID string

	// Push only dates within N days of today; nil = no limit
	PushPmsPeriod *int
	// Push only if combined maxLength is below the threshold; nil = no limit
	PushPmsIfLowerThan *int

	// Horizon of LOS automation; nil = use the configured window
	LastSellableDate *time.Time

	PmsEnabled bool
}
