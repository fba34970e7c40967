package calendar

import (
	"github.com/m04kA/SMC-RestrictionService/internal/domain"
)

// PolicyName identifies a combination policy in requests
type PolicyName string

const (
	// PolicyGuest least restrictive wins, used for the guest-facing calendar
	PolicyGuest PolicyName = "guest"
	// PolicyPMS most restrictive wins, used for PMS push
	PolicyPMS PolicyName = "pms"
)

// Policy parameterizes the restriction fold.
//
// pickMin and pickMax combine two present values of minimum and maximum fields.
// pickType chooses between two types, both for blocks and for exceptions.
// resolve decides between the chosen block and the combined exception row.
type Policy struct {
	Name PolicyName

	minFields []domain.Field
	maxFields []domain.Field

	pickMin  func(a, b int) int
	pickMax  func(a, b int) int
	pickType func(a, b domain.RestrictionType) domain.RestrictionType

	resolve func(block, combined *domain.Restriction) *domain.Restriction
}

// LeastRestrictive guest calendar policy.
// A block survives only when every applicable row is a block; exceptions combine
// to the loosest minimum and the widest maximum of minLength, maxLength, minAdv, maxAdv.
func LeastRestrictive() Policy {
	return Policy{
		Name:      PolicyGuest,
		minFields: []domain.Field{domain.FieldMinLength, domain.FieldMinAdv},
		maxFields: []domain.Field{domain.FieldMaxLength, domain.FieldMaxAdv},
		pickMin:   minInt,
		pickMax:   maxInt,
		pickType:  weakerType,
		resolve: func(block, combined *domain.Restriction) *domain.Restriction {
			if combined == nil {
				return block
			}
			// Ни одного значения среди четырёх полей - ограничения на день нет
			if !combined.HasException() {
				return nil
			}
			return combined
		},
	}
}

// MostRestrictive PMS push policy.
// The strongest block overrides entirely unless an exception carries a higher type;
// otherwise minimums take the max and maximums take the min over all six fields.
func MostRestrictive() Policy {
	return Policy{
		Name:      PolicyPMS,
		minFields: []domain.Field{domain.FieldMinLength, domain.FieldMinAdv, domain.FieldMinLosThrough},
		maxFields: []domain.Field{domain.FieldMaxLength, domain.FieldMaxAdv, domain.FieldMaxReservationCount},
		pickMin:   maxInt,
		pickMax:   minInt,
		pickType:  strongerType,
		resolve: func(block, combined *domain.Restriction) *domain.Restriction {
			if block != nil && (combined == nil || block.Type.Priority() >= combined.Type.Priority()) {
				return block
			}
			return combined
		},
	}
}

// PolicyByName returns the policy for a request value
func PolicyByName(name PolicyName) (Policy, bool) {
	switch name {
	case PolicyGuest:
		return LeastRestrictive(), true
	case PolicyPMS:
		return MostRestrictive(), true
	default:
		return Policy{}, false
	}
}

func minInt(a, b int) int {
	if b < a {
		return b
	}
	return a
}

func maxInt(a, b int) int {
	if b > a {
		return b
	}
	return a
}

func weakerType(a, b domain.RestrictionType) domain.RestrictionType {
	if b.Priority() < a.Priority() {
		return b
	}
	return a
}

func strongerType(a, b domain.RestrictionType) domain.RestrictionType {
	if b.Priority() > a.Priority() {
		return b
	}
	return a
}
