package run_los_automation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
)

// validateRequest проверяет запрос и разбирает даты; нулевое время означает "не задано"
func validateRequest(req *Request) (from, to time.Time, err error) {
	if req.HotelID == "" {
		return from, to, fmt.Errorf("%w: hotelId is required", ErrInvalidInput)
	}
	for _, id := range req.RoomProductIDs {
		if id == "" || len(id) > domain.MaxIDLength {
			return from, to, fmt.Errorf("%w: invalid roomProductId %q", ErrInvalidInput, id)
		}
	}

	if req.FromDate != "" {
		if from, err = domain.ParseDate(req.FromDate); err != nil {
			return from, to, fmt.Errorf("%w: fromDate: %v", ErrInvalidInput, err)
		}
	}
	if req.ToDate != "" {
		if to, err = domain.ParseDate(req.ToDate); err != nil {
			return from, to, fmt.Errorf("%w: toDate: %v", ErrInvalidInput, err)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, fmt.Errorf("%w: toDate is before fromDate", ErrInvalidInput)
	}

	return from, to, nil
}
