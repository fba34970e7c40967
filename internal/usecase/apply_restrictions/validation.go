package apply_restrictions

import (
	"fmt"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
)

// validateRequest валидирует входные данные и конвертирует кандидатов в domain модели
func validateRequest(req *Request) ([]*domain.Restriction, error) {
	if req.HotelID == "" {
		return nil, fmt.Errorf("%w: hotelId is required", ErrInvalidInput)
	}
	if len(req.HotelID) > domain.MaxIDLength {
		return nil, fmt.Errorf("%w: hotelId is longer than %d", ErrInvalidInput, domain.MaxIDLength)
	}
	if req.Source != "" && !req.Source.IsValid() {
		return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidInput, req.Source)
	}
	if len(req.Restrictions) == 0 {
		return nil, fmt.Errorf("%w: restrictions are required", ErrInvalidInput)
	}
	if len(req.Restrictions) > domain.MaxCandidatesPerRequest {
		return nil, fmt.Errorf("%w: %d restrictions, limit %d", ErrTooManyRestrictions, len(req.Restrictions), domain.MaxCandidatesPerRequest)
	}

	candidates := make([]*domain.Restriction, 0, len(req.Restrictions))
	for i := range req.Restrictions {
		r, err := req.Restrictions[i].ToDomain(req.HotelID)
		if err != nil {
			return nil, fmt.Errorf("%w: restriction %d: %v", ErrInvalidInput, i, err)
		}
		r.Normalize()

		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w: restriction %d: %v", ErrInvalidInput, i, err)
		}
		if err := r.ValidateBounds(); err != nil {
			return nil, fmt.Errorf("%w: restriction %d: %v", ErrInvalidInput, i, err)
		}
		for _, ids := range [][]string{r.RoomProductIDs, r.RatePlanIDs} {
			for _, id := range ids {
				if len(id) > domain.MaxIDLength {
					return nil, fmt.Errorf("%w: restriction %d: id %q is too long", ErrInvalidInput, i, id)
				}
			}
		}
		if v := r.MaxLength; v != nil && *v > domain.MaxLengthOfStay {
			return nil, fmt.Errorf("%w: restriction %d: maxLength exceeds %d", ErrInvalidInput, i, domain.MaxLengthOfStay)
		}

		candidates = append(candidates, r)
	}

	return candidates, nil
}
