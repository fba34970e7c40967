package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/pkg/ptr"
)

var date = domain.NewDate(2025, time.June, 1)

func block(typ domain.RestrictionType) *domain.Restriction {
	return &domain.Restriction{HotelID: "h1", FromDate: date, ToDate: date, Type: typ}
}

func exception(typ domain.RestrictionType, minLength, maxLength *int) *domain.Restriction {
	r := block(typ)
	r.MinLength = minLength
	r.MaxLength = maxLength
	return r
}

func TestCombine_NothingApplies(t *testing.T) {
	other := block(domain.ClosedToStay)
	other.FromDate = date.AddDate(0, 0, 1)
	other.ToDate = date.AddDate(0, 0, 3)

	assert.Nil(t, Combine([]*domain.Restriction{other}, date, LeastRestrictive()))
	assert.Nil(t, Combine(nil, date, MostRestrictive()))
}

func TestCombine_LeastRestrictive(t *testing.T) {
	tests := []struct {
		name        string
		rows        []*domain.Restriction
		wantNil     bool
		wantType    domain.RestrictionType
		wantMin     *int
		wantMax     *int
		wantBlocked bool
	}{
		{
			name:        "only blocks keep the weakest block",
			rows:        []*domain.Restriction{block(domain.ClosedToStay), block(domain.ClosedToArrival)},
			wantType:    domain.ClosedToArrival,
			wantBlocked: true,
		},
		{
			name: "exception beats blocks",
			rows: []*domain.Restriction{
				block(domain.ClosedToStay),
				exception(domain.ClosedToArrival, ptr.Ptr(3), nil),
			},
			wantType: domain.ClosedToArrival,
			wantMin:  ptr.Ptr(3),
		},
		{
			name: "loosest minimum and widest maximum",
			rows: []*domain.Restriction{
				exception(domain.ClosedToDeparture, ptr.Ptr(3), ptr.Ptr(7)),
				exception(domain.ClosedToArrival, ptr.Ptr(2), ptr.Ptr(14)),
			},
			wantType: domain.ClosedToArrival,
			wantMin:  ptr.Ptr(2),
			wantMax:  ptr.Ptr(14),
		},
		{
			name: "only fields outside the four yields no restriction",
			rows: func() []*domain.Restriction {
				r := block(domain.ClosedToArrival)
				r.MinLosThrough = ptr.Ptr(2)
				return []*domain.Restriction{r, block(domain.ClosedToStay)}
			}(),
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Combine(tt.rows, date, LeastRestrictive())
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantBlocked, got.IsPureBlocking())
			assert.Equal(t, tt.wantMin, got.MinLength)
			assert.Equal(t, tt.wantMax, got.MaxLength)
		})
	}
}

func TestCombine_MostRestrictive(t *testing.T) {
	t.Run("strongest block overrides", func(t *testing.T) {
		got := Combine([]*domain.Restriction{
			exception(domain.ClosedToArrival, ptr.Ptr(2), ptr.Ptr(10)),
			block(domain.ClosedToStay),
			block(domain.ClosedToArrival),
		}, date, MostRestrictive())

		require.NotNil(t, got)
		assert.Equal(t, domain.ClosedToStay, got.Type)
		assert.True(t, got.IsPureBlocking())
	})

	t.Run("higher typed exception beats weaker block", func(t *testing.T) {
		got := Combine([]*domain.Restriction{
			block(domain.ClosedToArrival),
			exception(domain.ClosedToStay, ptr.Ptr(2), ptr.Ptr(10)),
		}, date, MostRestrictive())

		require.NotNil(t, got)
		assert.Equal(t, domain.ClosedToStay, got.Type)
		assert.Equal(t, 2, *got.MinLength)
	})

	t.Run("tightest values across exceptions", func(t *testing.T) {
		a := exception(domain.ClosedToArrival, ptr.Ptr(2), ptr.Ptr(10))
		a.MaxReservationCount = ptr.Ptr(5)
		b := exception(domain.ClosedToDeparture, ptr.Ptr(4), ptr.Ptr(7))
		b.MinLosThrough = ptr.Ptr(3)

		got := Combine([]*domain.Restriction{a, b}, date, MostRestrictive())

		require.NotNil(t, got)
		assert.Equal(t, domain.ClosedToDeparture, got.Type)
		assert.Equal(t, 4, *got.MinLength)
		assert.Equal(t, 7, *got.MaxLength)
		assert.Equal(t, 3, *got.MinLosThrough)
		assert.Equal(t, 5, *got.MaxReservationCount)
	})
}

func TestCombine_OrderIndependent(t *testing.T) {
	rows := []*domain.Restriction{
		exception(domain.ClosedToArrival, ptr.Ptr(2), ptr.Ptr(10)),
		block(domain.ClosedToDeparture),
		exception(domain.ClosedToStay, ptr.Ptr(5), nil),
		exception(domain.ClosedToArrival, nil, ptr.Ptr(4)),
	}
	reversed := []*domain.Restriction{rows[3], rows[2], rows[1], rows[0]}

	for _, policy := range []Policy{LeastRestrictive(), MostRestrictive()} {
		a := Combine(rows, date, policy)
		b := Combine(reversed, date, policy)
		require.NotNil(t, a)
		require.NotNil(t, b)
		assert.Equal(t, a.Type, b.Type, string(policy.Name))
		assert.Equal(t, a.MinLength, b.MinLength, string(policy.Name))
		assert.Equal(t, a.MaxLength, b.MaxLength, string(policy.Name))
	}
}

func TestCombine_LeastRestrictiveMonotonic(t *testing.T) {
	base := []*domain.Restriction{exception(domain.ClosedToArrival, ptr.Ptr(3), ptr.Ptr(7))}
	before := Combine(base, date, LeastRestrictive())
	require.NotNil(t, before)

	for _, extra := range []*domain.Restriction{
		exception(domain.ClosedToArrival, ptr.Ptr(1), ptr.Ptr(5)),
		exception(domain.ClosedToStay, ptr.Ptr(6), ptr.Ptr(30)),
		exception(domain.ClosedToDeparture, nil, ptr.Ptr(2)),
		block(domain.ClosedToStay),
	} {
		after := Combine(append(base, extra), date, LeastRestrictive())
		require.NotNil(t, after)
		assert.LessOrEqual(t, *after.MinLength, *before.MinLength)
		assert.GreaterOrEqual(t, *after.MaxLength, *before.MaxLength)
	}
}

func TestBuild_PerDay(t *testing.T) {
	weekend := &domain.Restriction{
		HotelID:  "h1",
		FromDate: date,
		ToDate:   date.AddDate(0, 0, 6),
		Weekdays: []domain.Weekday{domain.Saturday, domain.Sunday},
		Type:     domain.ClosedToArrival,
	}

	days := Build([]*domain.Restriction{weekend}, date, date.AddDate(0, 0, 6), LeastRestrictive())

	require.Len(t, days, 7)
	// 2025-06-01 is a Sunday, 2025-06-07 a Saturday
	assert.NotNil(t, days[0].Restriction)
	for _, d := range days[1:6] {
		assert.Nil(t, d.Restriction, d.Date.Format(domain.DateFormat))
	}
	assert.NotNil(t, days[6].Restriction)
}

func TestPolicyByName(t *testing.T) {
	p, ok := PolicyByName(PolicyGuest)
	assert.True(t, ok)
	assert.Equal(t, PolicyGuest, p.Name)

	_, ok = PolicyByName("other")
	assert.False(t, ok)
}
