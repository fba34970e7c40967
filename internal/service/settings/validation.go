package settings

import (
	"fmt"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/service/settings/models"
)

func validateDerivedSetting(req *models.DerivedSettingRequest) error {
	if req.HotelID == "" {
		return fmt.Errorf("%w: hotelId is required", ErrInvalidInput)
	}
	if req.DerivedRatePlanID == "" || req.ParentRatePlanID == "" {
		return fmt.Errorf("%w: derived and parent rate plan ids are required", ErrInvalidInput)
	}
	if len(req.DerivedRatePlanID) > domain.MaxIDLength || len(req.ParentRatePlanID) > domain.MaxIDLength {
		return fmt.Errorf("%w: rate plan id is longer than %d", ErrInvalidInput, domain.MaxIDLength)
	}
	if req.DerivedRatePlanID == req.ParentRatePlanID {
		return fmt.Errorf("%w: rate plan cannot derive from itself", ErrInvalidInput)
	}
	for _, f := range req.InheritedRestrictionFields {
		if !f.IsValid() {
			return fmt.Errorf("%w: unknown restriction field %q", ErrInvalidInput, f)
		}
	}
	return nil
}

func validateAutomationSetting(req *models.AutomationSettingRequest) error {
	if req.HotelID == "" {
		return fmt.Errorf("%w: hotelId is required", ErrInvalidInput)
	}
	if req.RoomProductID == nil && req.RatePlanID == nil {
		return fmt.Errorf("%w: roomProductId or ratePlanId is required", ErrInvalidInput)
	}
	for _, id := range []*string{req.RoomProductID, req.RatePlanID} {
		if id != nil && (*id == "" || len(*id) > domain.MaxIDLength) {
			return fmt.Errorf("%w: invalid scope id %q", ErrInvalidInput, *id)
		}
	}

	settings := req.Settings
	if settings.GapFillMode != "" && !settings.GapFillMode.IsValid() {
		return fmt.Errorf("%w: unknown gapFillMode %q", ErrInvalidInput, settings.GapFillMode)
	}
	for name, v := range map[string]*int{
		"defaultMinLength": settings.DefaultMinLength,
		"defaultMaxLength": settings.DefaultMaxLength,
		"minAdv":           settings.MinAdv,
		"maxAdv":           settings.MaxAdv,
	} {
		if v != nil && (*v < 0 || *v > domain.MaxLengthOfStay) {
			return fmt.Errorf("%w: %s must be between 0 and %d", ErrInvalidInput, name, domain.MaxLengthOfStay)
		}
	}
	if settings.DefaultMinLength != nil && *settings.DefaultMinLength < 1 {
		return fmt.Errorf("%w: defaultMinLength must be positive", ErrInvalidInput)
	}
	return nil
}
