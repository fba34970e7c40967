package losautomation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/service/losautomation/models"
	"github.com/m04kA/SMC-RestrictionService/pkg/logger"
	"github.com/m04kA/SMC-RestrictionService/pkg/ptr"
)

func day(d int) time.Time {
	return domain.NewDate(2025, time.June, d)
}

func unitWith(statuses ...domain.RoomUnitStatus) *domain.RoomUnitAvailability {
	unit := &domain.RoomUnitAvailability{
		RoomUnitID:    "u1",
		RoomProductID: "rp1",
		Statuses:      make(map[time.Time]domain.RoomUnitStatus),
	}
	for i, s := range statuses {
		unit.Statuses[day(i+1)] = s
	}
	return unit
}

func TestService_Compute(t *testing.T) {
	const A, X = domain.RoomUnitAvailable, domain.RoomUnitAssigned

	houseClosed := &domain.Restriction{
		HotelID:  "h1",
		FromDate: day(5),
		ToDate:   day(5),
		Type:     domain.ClosedToStay,
	}
	otherRoomClosed := &domain.Restriction{
		HotelID:        "h1",
		RoomProductIDs: []string{"rp2"},
		FromDate:       day(1),
		ToDate:         day(6),
		Type:           domain.ClosedToStay,
	}
	manual := &domain.Restriction{
		HotelID:        "h1",
		RoomProductIDs: []string{"rp1"},
		FromDate:       day(1),
		ToDate:         day(1),
		Type:           domain.ClosedToArrival,
		MinLength:      ptr.Ptr(3),
		Source:         domain.SourceMap{domain.FieldMinLength: domain.SourceManual},
	}

	in := &models.Input{
		HotelID:       "h1",
		RoomProductID: "rp1",
		From:          day(1),
		To:            day(6),
		Settings: domain.AutomationSettings{
			DefaultMinLength: ptr.Ptr(2),
			MinAdv:           ptr.Ptr(1),
			GapFillMode:      domain.GapFillFilling,
		},
		Units:        []*domain.RoomUnitAvailability{unitWith(A, A, X, A, A, A)},
		Restrictions: []*domain.Restriction{houseClosed, otherRoomClosed, manual},
	}

	out := NewService(logger.Nop()).Compute(in)

	assert.Equal(t, 6, out.DatesTotal)
	assert.Equal(t, 2, out.DatesUnavailable)
	require.Len(t, out.Restrictions, 6)

	byDay := make(map[int]*domain.Restriction)
	for _, r := range out.Restrictions {
		assert.Equal(t, domain.ClosedToArrival, r.Type)
		assert.Equal(t, []string{"rp1"}, r.RoomProductIDs)
		assert.Equal(t, r.FromDate, r.ToDate)
		assert.Equal(t, 1, *r.MinAdv)
		assert.Equal(t, domain.SourceDefault, r.SourceOf(domain.FieldMinAdv))
		byDay[r.FromDate.Day()] = r
	}

	assert.Equal(t, 3, *byDay[1].MinLength)
	assert.Equal(t, domain.SourceManual, byDay[1].SourceOf(domain.FieldMinLength))
	assert.Equal(t, 2, *byDay[1].MaxLength)

	assert.Equal(t, 2, *byDay[2].MinLength)
	assert.Equal(t, domain.SourceDefault, byDay[2].SourceOf(domain.FieldMinLength))

	assert.Equal(t, 1, *byDay[4].MinLength)
	assert.Equal(t, domain.SourceAutomated, byDay[4].SourceOf(domain.FieldMinLength))
	assert.Equal(t, 1, *byDay[4].MaxLength)

	assert.Equal(t, 1, *byDay[6].MaxLength)

	// Booked and house-closed dates are emitted as closed so earlier values are replaced
	for _, d := range []int{3, 5} {
		require.Contains(t, byDay, d)
		assert.Equal(t, 0, *byDay[d].MaxLength, "maxLength on %d", d)
		assert.Equal(t, 0, *byDay[d].MinLength, "minLength on %d", d)
		assert.Equal(t, domain.SourceAutomated, byDay[d].SourceOf(domain.FieldMaxLength))
	}
}

func TestService_ComputeWithoutUnits(t *testing.T) {
	out := NewService(logger.Nop()).Compute(&models.Input{
		HotelID:       "h1",
		RoomProductID: "rp1",
		From:          day(1),
		To:            day(3),
	})

	require.Len(t, out.Restrictions, 3)
	for _, r := range out.Restrictions {
		assert.Equal(t, 0, *r.MaxLength)
	}
	assert.Equal(t, 3, out.DatesUnavailable)
}
