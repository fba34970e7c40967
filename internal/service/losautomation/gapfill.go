package losautomation

import "github.com/m04kA/SMC-RestrictionService/internal/domain"

// Decision final LOS values of one date with their provenance
type Decision struct {
	MinLength int
	MinSource domain.Source
	MaxLength int
	MaxSource domain.Source
}

// GapFill turns the default minimum, the computed maximum and an optional manual
// minimum into the final minLength/maxLength of a date.
//
// A manual minimum always wins and is never reduced. Without it FILLING caps the
// default minimum at the computed maximum, MAXIMUM keeps the default minimum and
// only the maximum shrinks. The maximum is the computed one, further limited by
// the configured default maximum.
func GapFill(settings domain.AutomationSettings, computedMax int, manualMin *int) Decision {
	d := Decision{
		MaxLength: computedMax,
		MaxSource: domain.SourceAutomated,
	}
	if settings.DefaultMaxLength != nil && *settings.DefaultMaxLength < computedMax {
		d.MaxLength = *settings.DefaultMaxLength
		d.MaxSource = domain.SourceDefault
	}

	if manualMin != nil {
		d.MinLength = *manualMin
		d.MinSource = domain.SourceManual
		return d
	}

	d.MinLength = settings.MinLengthOrDefault()
	d.MinSource = domain.SourceDefault

	if modeOf(settings) == domain.GapFillFilling && d.MinLength > computedMax {
		d.MinLength = computedMax
		d.MinSource = domain.SourceAutomated
	}

	return d
}

// modeOf FILLING when the mode is not configured
func modeOf(settings domain.AutomationSettings) domain.GapFillMode {
	if settings.GapFillMode == "" {
		return domain.GapFillFilling
	}
	return settings.GapFillMode
}
