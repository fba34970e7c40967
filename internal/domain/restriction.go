package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// RestrictionType is the blocking kind of a restriction
type RestrictionType string

const (
	ClosedToArrival   RestrictionType = "ClosedToArrival"
	ClosedToDeparture RestrictionType = "ClosedToDeparture"
	ClosedToStay      RestrictionType = "ClosedToStay"
)

// Priority returns the precedence of a blocking type: CTS > CTD > CTA
func (t RestrictionType) Priority() int {
	switch t {
	case ClosedToStay:
		return 3
	case ClosedToDeparture:
		return 2
	case ClosedToArrival:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether t is one of the known restriction types
func (t RestrictionType) IsValid() bool {
	return t.Priority() > 0
}

// Level is the scope granularity of a restriction
type Level string

const (
	LevelHouse               Level = "HOUSE"
	LevelRoomProduct         Level = "ROOM_PRODUCT"
	LevelRatePlan            Level = "RATE_PLAN"
	LevelRoomProductRatePlan Level = "ROOM_PRODUCT_RATE_PLAN"
)

// Field names a numeric exception field of a restriction
type Field string

const (
	FieldMinLength           Field = "minLength"
	FieldMaxLength           Field = "maxLength"
	FieldMinAdv              Field = "minAdv"
	FieldMaxAdv              Field = "maxAdv"
	FieldMinLosThrough       Field = "minLosThrough"
	FieldMaxReservationCount Field = "maxReservationCount"
)

// NumericFields lists every numeric field in a stable order
var NumericFields = []Field{
	FieldMinLength,
	FieldMaxLength,
	FieldMinAdv,
	FieldMaxAdv,
	FieldMinLosThrough,
	FieldMaxReservationCount,
}

// IsValid reports whether f is a known numeric field
func (f Field) IsValid() bool {
	for _, known := range NumericFields {
		if f == known {
			return true
		}
	}
	return false
}

// IsMinimum reports whether a larger value of f is more restrictive
func (f Field) IsMinimum() bool {
	return f == FieldMinLength || f == FieldMinAdv || f == FieldMinLosThrough
}

// Source is the provenance of a single numeric field value
type Source string

const (
	SourceManual    Source = "MANUAL"
	SourceDefault   Source = "DEFAULT"
	SourceAutomated Source = "AUTOMATED"
	SourcePMS       Source = "PMS"
)

// IsValid reports whether s is a known source
func (s Source) IsValid() bool {
	switch s {
	case SourceManual, SourceDefault, SourceAutomated, SourcePMS:
		return true
	}
	return false
}

// SourceMap maps a numeric field to where its value came from.
// Stored as jsonb.
type SourceMap map[Field]Source

// Clone returns an independent copy of the map
func (m SourceMap) Clone() SourceMap {
	if m == nil {
		return nil
	}
	out := make(SourceMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Value implements driver.Valuer
func (m SourceMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *SourceMap) Scan(src interface{}) error {
	data, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if data == nil {
		*m = nil
		return nil
	}
	return json.Unmarshal(data, m)
}

// Metadata keeps inheritance bookkeeping of derived restrictions.
// Stored as jsonb.
type Metadata struct {
	ParentRestrictionID *string `json:"parentRestrictionId,omitempty"`
	InheritedFields     []Field `json:"inheritedFields,omitempty"`
	IsDerived           bool    `json:"isDerived"`
}

// Clone returns an independent copy of the metadata
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	out := &Metadata{IsDerived: m.IsDerived}
	if m.ParentRestrictionID != nil {
		id := *m.ParentRestrictionID
		out.ParentRestrictionID = &id
	}
	if m.InheritedFields != nil {
		out.InheritedFields = append([]Field(nil), m.InheritedFields...)
	}
	return out
}

// Value implements driver.Valuer
func (m *Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *Metadata) Scan(src interface{}) error {
	data, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	return json.Unmarshal(data, m)
}

func jsonBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// Restriction is a booking rule over a date range for a scope of the hotel inventory.
//
// A restriction without any numeric field is a pure blocking restriction and its
// Type is enforced. With at least one numeric field it is an exception restriction
// and Type is informational.
type Restriction struct {
	ID      string
	HotelID string

	// nil = not scoped by that dimension
	RoomProductIDs []string
	RatePlanIDs    []string

	FromDate time.Time
	ToDate   time.Time
	Weekdays []Weekday

	Type RestrictionType

	MinLength           *int
	MaxLength           *int
	MinAdv              *int
	MaxAdv              *int
	MinLosThrough       *int
	MaxReservationCount *int

	Source   SourceMap
	Metadata *Metadata

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Level returns the scope level derived from which id lists are set
func (r *Restriction) Level() Level {
	hasRooms := len(r.RoomProductIDs) > 0
	hasRatePlans := len(r.RatePlanIDs) > 0

	switch {
	case hasRooms && hasRatePlans:
		return LevelRoomProductRatePlan
	case hasRooms:
		return LevelRoomProduct
	case hasRatePlans:
		return LevelRatePlan
	default:
		return LevelHouse
	}
}

// Get returns the value of a numeric field
func (r *Restriction) Get(f Field) *int {
	switch f {
	case FieldMinLength:
		return r.MinLength
	case FieldMaxLength:
		return r.MaxLength
	case FieldMinAdv:
		return r.MinAdv
	case FieldMaxAdv:
		return r.MaxAdv
	case FieldMinLosThrough:
		return r.MinLosThrough
	case FieldMaxReservationCount:
		return r.MaxReservationCount
	}
	return nil
}

// Set assigns a numeric field; nil clears it
func (r *Restriction) Set(f Field, v *int) {
	if v != nil {
		c := *v
		v = &c
	}
	switch f {
	case FieldMinLength:
		r.MinLength = v
	case FieldMaxLength:
		r.MaxLength = v
	case FieldMinAdv:
		r.MinAdv = v
	case FieldMaxAdv:
		r.MaxAdv = v
	case FieldMinLosThrough:
		r.MinLosThrough = v
	case FieldMaxReservationCount:
		r.MaxReservationCount = v
	}
}

// PresentFields returns the numeric fields that carry a value
func (r *Restriction) PresentFields() []Field {
	fields := make([]Field, 0, len(NumericFields))
	for _, f := range NumericFields {
		if r.Get(f) != nil {
			fields = append(fields, f)
		}
	}
	return fields
}

// HasException returns true if at least one numeric field is set
func (r *Restriction) HasException() bool {
	for _, f := range NumericFields {
		if r.Get(f) != nil {
			return true
		}
	}
	return false
}

// IsPureBlocking returns true if the restriction carries no numeric field
func (r *Restriction) IsPureBlocking() bool {
	return !r.HasException()
}

// SourceOf returns the provenance of a field, empty if unknown
func (r *Restriction) SourceOf(f Field) Source {
	if r.Source == nil {
		return ""
	}
	return r.Source[f]
}

// SetSource records the provenance of a field
func (r *Restriction) SetSource(f Field, s Source) {
	if r.Source == nil {
		r.Source = make(SourceMap)
	}
	r.Source[f] = s
}

// IsDerived reports whether the restriction was projected from a parent rate plan
func (r *Restriction) IsDerived() bool {
	return r.Metadata != nil && r.Metadata.IsDerived
}

// Covers returns true if the restriction applies on the given calendar date
func (r *Restriction) Covers(date time.Time) bool {
	d := DateOnly(date)
	if d.Before(r.FromDate) || d.After(r.ToDate) {
		return false
	}
	return AppliesOnWeekday(r.Weekdays, WeekdayOf(d))
}

// CoversAnyDay returns true if at least one date of the period falls on the weekday mask
func (r *Restriction) CoversAnyDay() bool {
	if r.ToDate.Before(r.FromDate) {
		return false
	}
	if len(r.Weekdays) == 0 {
		return true
	}
	for d := r.FromDate; !d.After(r.ToDate); d = d.AddDate(0, 0, 1) {
		if AppliesOnWeekday(r.Weekdays, WeekdayOf(d)) {
			return true
		}
	}
	return false
}

// OverlapsPeriod returns true if [from, to] intersects the restriction period
func (r *Restriction) OverlapsPeriod(from, to time.Time) bool {
	return !r.FromDate.After(DateOnly(to)) && !r.ToDate.Before(DateOnly(from))
}

// Overlaps returns true if both periods and weekday masks intersect
func (r *Restriction) Overlaps(other *Restriction) bool {
	if !r.OverlapsPeriod(other.FromDate, other.ToDate) {
		return false
	}
	return WeekdaysIntersect(r.Weekdays, other.Weekdays)
}

// AppliesTo reports whether the restriction scope includes the room product and rate plan.
// An empty argument does not filter on that dimension.
func (r *Restriction) AppliesTo(roomProductID, ratePlanID string) bool {
	if roomProductID != "" && len(r.RoomProductIDs) > 0 && !ContainsID(r.RoomProductIDs, roomProductID) {
		return false
	}
	if ratePlanID != "" && len(r.RatePlanIDs) > 0 && !ContainsID(r.RatePlanIDs, ratePlanID) {
		return false
	}
	return true
}

// SameScope returns true if both restrictions target the same hotel and id sets
func (r *Restriction) SameScope(other *Restriction) bool {
	return r.HotelID == other.HotelID &&
		SameIDSet(r.RoomProductIDs, other.RoomProductIDs) &&
		SameIDSet(r.RatePlanIDs, other.RatePlanIDs)
}

// Clone returns a deep copy of the restriction
func (r *Restriction) Clone() *Restriction {
	if r == nil {
		return nil
	}
	out := *r
	out.RoomProductIDs = cloneIDs(r.RoomProductIDs)
	out.RatePlanIDs = cloneIDs(r.RatePlanIDs)
	if r.Weekdays != nil {
		out.Weekdays = append([]Weekday(nil), r.Weekdays...)
	}
	for _, f := range NumericFields {
		out.Set(f, r.Get(f))
	}
	out.Source = r.Source.Clone()
	out.Metadata = r.Metadata.Clone()
	return &out
}

// Normalize brings ids, weekdays and dates to their canonical form:
// empty id lists become nil, ids and weekdays are sorted and deduplicated,
// an empty weekday mask means every day.
func (r *Restriction) Normalize() {
	r.RoomProductIDs = NormalizeIDs(r.RoomProductIDs)
	r.RatePlanIDs = NormalizeIDs(r.RatePlanIDs)
	r.Weekdays = NormalizeWeekdays(r.Weekdays)
	r.FromDate = DateOnly(r.FromDate)
	r.ToDate = DateOnly(r.ToDate)
}

// Validate checks the structural invariants of a restriction.
// Consistency between minimum and maximum is checked on request input, see ValidateBounds.
func (r *Restriction) Validate() error {
	if r.HotelID == "" {
		return errors.New("hotelId is required")
	}
	if !r.Type.IsValid() {
		return fmt.Errorf("unknown restriction type %q", r.Type)
	}
	if r.FromDate.IsZero() || r.ToDate.IsZero() {
		return errors.New("fromDate and toDate are required")
	}
	if r.ToDate.Before(r.FromDate) {
		return errors.New("toDate is before fromDate")
	}
	for _, w := range r.Weekdays {
		if !w.IsValid() {
			return fmt.Errorf("unknown weekday %q", w)
		}
	}
	for _, ids := range [][]string{r.RoomProductIDs, r.RatePlanIDs} {
		for _, id := range ids {
			if id == "" {
				return errors.New("scope ids must not be empty")
			}
		}
	}
	for _, f := range NumericFields {
		if v := r.Get(f); v != nil && *v < 0 {
			return fmt.Errorf("%s must not be negative", f)
		}
	}
	for f, s := range r.Source {
		if !f.IsValid() {
			return fmt.Errorf("unknown source field %q", f)
		}
		if !s.IsValid() {
			return fmt.Errorf("unknown source %q for %s", s, f)
		}
	}
	return nil
}

// ValidateBounds checks that minimums do not exceed maximums
func (r *Restriction) ValidateBounds() error {
	if r.MinLength != nil && r.MaxLength != nil && *r.MinLength > *r.MaxLength {
		return errors.New("minLength is greater than maxLength")
	}
	if r.MinAdv != nil && r.MaxAdv != nil && *r.MinAdv > *r.MaxAdv {
		return errors.New("minAdv is greater than maxAdv")
	}
	return nil
}

// NormalizeIDs sorts and deduplicates ids; an empty list becomes nil
func NormalizeIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := append([]string(nil), ids...)
	sort.Strings(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

// SameIDSet compares two id lists as sets; nil and empty are equal
func SameIDSet(a, b []string) bool {
	a, b = NormalizeIDs(a), NormalizeIDs(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ContainsID reports whether id is in ids
func ContainsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	return append([]string(nil), ids...)
}

// RestrictionFilter selects stored restrictions
type RestrictionFilter struct {
	HotelID string // Обязательный параметр

	// Период, пересекающийся с [From, To] (опционально)
	From *time.Time
	To   *time.Time

	Types []RestrictionType

	// Пересечение массивов (room_product_ids && :ids)
	RoomProductIDs []string
	RatePlanIDs    []string

	// Точное совпадение скоупа; nil-срез означает IS NULL
	ExactScope          bool
	ScopeRoomProductIDs []string
	ScopeRatePlanIDs    []string

	Levels []Level
}
