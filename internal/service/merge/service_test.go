package merge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/testutil/memstore"
	"github.com/m04kA/SMC-RestrictionService/pkg/logger"
	"github.com/m04kA/SMC-RestrictionService/pkg/ptr"
)

func day(d int) time.Time {
	return domain.NewDate(2025, time.June, d)
}

func restrictionOn(typ domain.RestrictionType, from, to int) *domain.Restriction {
	return &domain.Restriction{
		HotelID:     "h1",
		RatePlanIDs: []string{"p1"},
		FromDate:    day(from),
		ToDate:      day(to),
		Type:        typ,
	}
}

func withMinLength(r *domain.Restriction, v int, src domain.Source) *domain.Restriction {
	r.MinLength = ptr.Ptr(v)
	if src != "" {
		r.SetSource(domain.FieldMinLength, src)
	}
	return r
}

func newService(store *memstore.Restrictions) *Service {
	return NewService(store, logger.Nop())
}

// apply merges and persists like the apply use case does
func apply(t *testing.T, svc *Service, store *memstore.Restrictions, source domain.Source, candidates ...*domain.Restriction) {
	t.Helper()
	result, err := svc.Merge(context.Background(), candidates, source)
	require.NoError(t, err)
	_, err = store.Persist(context.Background(), "h1", result.ToCreate, result.RemoveIDs())
	require.NoError(t, err)
}

func TestMerge_PureInsertWithoutStoredRows(t *testing.T) {
	store := memstore.NewRestrictions()

	result, err := newService(store).Merge(context.Background(), []*domain.Restriction{
		withMinLength(restrictionOn(domain.ClosedToArrival, 1, 5), 2, ""),
	}, domain.SourceManual)

	require.NoError(t, err)
	assert.Empty(t, result.ToRemove)
	require.Len(t, result.ToCreate, 1)
	assert.Equal(t, domain.SourceManual, result.ToCreate[0].SourceOf(domain.FieldMinLength))
	assert.Len(t, result.ToCreate[0].Weekdays, 7)
}

func TestMerge_TypePrecedence(t *testing.T) {
	tests := []struct {
		name      string
		stored    domain.RestrictionType
		candidate domain.RestrictionType
		want      domain.RestrictionType
	}{
		{name: "stored stay beats arrival", stored: domain.ClosedToStay, candidate: domain.ClosedToArrival, want: domain.ClosedToStay},
		{name: "candidate stay beats arrival", stored: domain.ClosedToArrival, candidate: domain.ClosedToStay, want: domain.ClosedToStay},
		{name: "stored departure beats arrival", stored: domain.ClosedToDeparture, candidate: domain.ClosedToArrival, want: domain.ClosedToDeparture},
		{name: "candidate stay beats departure", stored: domain.ClosedToDeparture, candidate: domain.ClosedToStay, want: domain.ClosedToStay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.NewRestrictions(restrictionOn(tt.stored, 1, 3))

			apply(t, newService(store), store, domain.SourcePMS, restrictionOn(tt.candidate, 1, 3))

			rows := store.All()
			require.Len(t, rows, 1)
			assert.Equal(t, tt.want, rows[0].Type)
			assert.Equal(t, day(1), rows[0].FromDate)
			assert.Equal(t, day(3), rows[0].ToDate)
		})
	}
}

func TestMerge_ManualPreservation(t *testing.T) {
	t.Run("non-manual operation keeps manual value", func(t *testing.T) {
		store := memstore.NewRestrictions(withMinLength(restrictionOn(domain.ClosedToArrival, 1, 3), 3, domain.SourceManual))

		result, err := newService(store).Merge(context.Background(), []*domain.Restriction{
			withMinLength(restrictionOn(domain.ClosedToArrival, 1, 3), 5, ""),
		}, domain.SourceAutomated)

		require.NoError(t, err)
		assert.Empty(t, result.ToCreate, "merge of an identical manual row is a no-op")
		assert.Empty(t, result.ToRemove)
	})

	t.Run("manual value carried next to new fields", func(t *testing.T) {
		store := memstore.NewRestrictions(withMinLength(restrictionOn(domain.ClosedToArrival, 1, 3), 3, domain.SourceManual))

		candidate := withMinLength(restrictionOn(domain.ClosedToArrival, 1, 3), 5, "")
		candidate.MaxLength = ptr.Ptr(7)

		result, err := newService(store).Merge(context.Background(), []*domain.Restriction{candidate}, domain.SourceAutomated)

		require.NoError(t, err)
		require.Len(t, result.ToCreate, 1)
		merged := result.ToCreate[0]
		assert.Equal(t, 3, *merged.MinLength)
		assert.Equal(t, domain.SourceManual, merged.SourceOf(domain.FieldMinLength))
		assert.Equal(t, 7, *merged.MaxLength)
		assert.Equal(t, domain.SourceAutomated, merged.SourceOf(domain.FieldMaxLength))
	})

	t.Run("manual operation overrides manual value", func(t *testing.T) {
		store := memstore.NewRestrictions(withMinLength(restrictionOn(domain.ClosedToArrival, 1, 3), 3, domain.SourceManual))

		result, err := newService(store).Merge(context.Background(), []*domain.Restriction{
			withMinLength(restrictionOn(domain.ClosedToArrival, 1, 3), 5, ""),
		}, domain.SourceManual)

		require.NoError(t, err)
		require.Len(t, result.ToCreate, 1)
		assert.Equal(t, 5, *result.ToCreate[0].MinLength)
		assert.Equal(t, []string{"r1"}, result.RemoveIDs())
	})

	t.Run("non-manual stored value is replaced", func(t *testing.T) {
		store := memstore.NewRestrictions(withMinLength(restrictionOn(domain.ClosedToArrival, 1, 3), 3, domain.SourceAutomated))

		result, err := newService(store).Merge(context.Background(), []*domain.Restriction{
			withMinLength(restrictionOn(domain.ClosedToArrival, 1, 3), 5, ""),
		}, domain.SourceAutomated)

		require.NoError(t, err)
		require.Len(t, result.ToCreate, 1)
		assert.Equal(t, 5, *result.ToCreate[0].MinLength)
	})
}

func TestMerge_KeepsStoredFieldsCandidateDoesNotSet(t *testing.T) {
	stored := withMinLength(restrictionOn(domain.ClosedToArrival, 1, 1), 2, domain.SourceAutomated)
	stored.MaxLength = ptr.Ptr(5)
	stored.SetSource(domain.FieldMaxLength, domain.SourceAutomated)

	t.Run("exception candidate keeps stored values", func(t *testing.T) {
		store := memstore.NewRestrictions(stored)

		candidate := restrictionOn(domain.ClosedToArrival, 1, 1)
		candidate.MaxAdv = ptr.Ptr(30)

		result, err := newService(store).Merge(context.Background(), []*domain.Restriction{candidate}, domain.SourcePMS)

		require.NoError(t, err)
		assert.Equal(t, []string{"r1"}, result.RemoveIDs())
		require.Len(t, result.ToCreate, 1)
		merged := result.ToCreate[0]
		require.NotNil(t, merged.MinLength)
		require.NotNil(t, merged.MaxLength)
		require.NotNil(t, merged.MaxAdv)
		assert.Equal(t, 2, *merged.MinLength)
		assert.Equal(t, 5, *merged.MaxLength)
		assert.Equal(t, 30, *merged.MaxAdv)
		assert.Equal(t, domain.SourceAutomated, merged.SourceOf(domain.FieldMinLength))
		assert.Equal(t, domain.SourceAutomated, merged.SourceOf(domain.FieldMaxLength))
		assert.Equal(t, domain.SourcePMS, merged.SourceOf(domain.FieldMaxAdv))
	})

	t.Run("candidate value wins over stored non-manual value", func(t *testing.T) {
		store := memstore.NewRestrictions(stored)

		candidate := restrictionOn(domain.ClosedToArrival, 1, 1)
		candidate.MaxLength = ptr.Ptr(8)

		result, err := newService(store).Merge(context.Background(), []*domain.Restriction{candidate}, domain.SourcePMS)

		require.NoError(t, err)
		require.Len(t, result.ToCreate, 1)
		assert.Equal(t, 2, *result.ToCreate[0].MinLength)
		assert.Equal(t, 8, *result.ToCreate[0].MaxLength)
		assert.Equal(t, domain.SourcePMS, result.ToCreate[0].SourceOf(domain.FieldMaxLength))
	})

	t.Run("pure blocking candidate closes the date", func(t *testing.T) {
		store := memstore.NewRestrictions(stored)

		result, err := newService(store).Merge(context.Background(), []*domain.Restriction{
			restrictionOn(domain.ClosedToStay, 1, 1),
		}, domain.SourcePMS)

		require.NoError(t, err)
		require.Len(t, result.ToCreate, 1)
		assert.True(t, result.ToCreate[0].IsPureBlocking())
		assert.Equal(t, domain.ClosedToStay, result.ToCreate[0].Type)
	})
}

func TestMerge_SplitsPartiallyCoveredRow(t *testing.T) {
	store := memstore.NewRestrictions(withMinLength(restrictionOn(domain.ClosedToArrival, 1, 10), 2, domain.SourceManual))

	result, err := newService(store).Merge(context.Background(), []*domain.Restriction{
		withMinLength(restrictionOn(domain.ClosedToArrival, 4, 5), 4, ""),
	}, domain.SourceManual)

	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, result.RemoveIDs())
	require.Len(t, result.ToCreate, 3)

	byFrom := make(map[int]*domain.Restriction)
	for _, r := range result.ToCreate {
		byFrom[r.FromDate.Day()] = r
	}

	require.Contains(t, byFrom, 4)
	assert.Equal(t, day(5), byFrom[4].ToDate)
	assert.Equal(t, 4, *byFrom[4].MinLength)

	require.Contains(t, byFrom, 1)
	assert.Equal(t, day(3), byFrom[1].ToDate)
	assert.Equal(t, 2, *byFrom[1].MinLength)

	require.Contains(t, byFrom, 6)
	assert.Equal(t, day(10), byFrom[6].ToDate)
	assert.Equal(t, 2, *byFrom[6].MinLength)
}

func TestMerge_SplitsWeekdaysOutsideCandidateMask(t *testing.T) {
	// 2025-06-02 is a Monday
	store := memstore.NewRestrictions(restrictionOn(domain.ClosedToStay, 2, 8))

	candidate := restrictionOn(domain.ClosedToStay, 2, 8)
	candidate.Weekdays = []domain.Weekday{domain.Saturday, domain.Sunday}
	candidate.MinLength = ptr.Ptr(2)

	result, err := newService(store).Merge(context.Background(), []*domain.Restriction{candidate}, domain.SourceManual)

	require.NoError(t, err)
	require.Len(t, result.ToCreate, 2)

	var weekdaysFragment *domain.Restriction
	for _, r := range result.ToCreate {
		if r.IsPureBlocking() {
			weekdaysFragment = r
		}
	}
	require.NotNil(t, weekdaysFragment)
	assert.Equal(t, []domain.Weekday{domain.Monday, domain.Tuesday, domain.Wednesday, domain.Thursday, domain.Friday}, weekdaysFragment.Weekdays)
	assert.Equal(t, day(2), weekdaysFragment.FromDate)
	assert.Equal(t, day(8), weekdaysFragment.ToDate)
}

func TestMerge_Idempotent(t *testing.T) {
	store := memstore.NewRestrictions()
	svc := newService(store)

	candidate := func() *domain.Restriction {
		r := withMinLength(restrictionOn(domain.ClosedToArrival, 1, 5), 2, "")
		r.MaxLength = ptr.Ptr(10)
		return r
	}

	apply(t, svc, store, domain.SourceManual, candidate())
	first := store.All()

	apply(t, svc, store, domain.SourceManual, candidate())
	second := store.All()

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, sameContent(first[0], second[0]))
}

func TestMerge_DeduplicatesIdenticalKeys(t *testing.T) {
	store := memstore.NewRestrictions()

	a := withMinLength(restrictionOn(domain.ClosedToArrival, 1, 1), 2, "")
	a.MaxLength = ptr.Ptr(9)
	b := withMinLength(restrictionOn(domain.ClosedToArrival, 1, 1), 4, "")
	b.MaxLength = ptr.Ptr(12)

	result, err := newService(store).Merge(context.Background(), []*domain.Restriction{a, b}, domain.SourceManual)

	require.NoError(t, err)
	require.Len(t, result.ToCreate, 1)
	assert.Equal(t, 4, *result.ToCreate[0].MinLength)
	assert.Equal(t, 9, *result.ToCreate[0].MaxLength)
}

func TestMerge_GroupsByStructuralKey(t *testing.T) {
	store := memstore.NewRestrictions()

	a := restrictionOn(domain.ClosedToArrival, 1, 1)
	a.RoomProductIDs = []string{"rp2", "rp1"}
	b := restrictionOn(domain.ClosedToArrival, 1, 1)
	b.RoomProductIDs = []string{"rp1", "rp2", "rp1"}

	result, err := newService(store).Merge(context.Background(), []*domain.Restriction{a, b}, domain.SourceManual)

	require.NoError(t, err)
	require.Len(t, result.ToCreate, 1)
	assert.Equal(t, []string{"rp1", "rp2"}, result.ToCreate[0].RoomProductIDs)
}

func TestMerge_RemovalIDsDeduplicated(t *testing.T) {
	store := memstore.NewRestrictions(restrictionOn(domain.ClosedToArrival, 1, 10))

	result, err := newService(store).Merge(context.Background(), []*domain.Restriction{
		withMinLength(restrictionOn(domain.ClosedToArrival, 1, 2), 2, ""),
		withMinLength(restrictionOn(domain.ClosedToStay, 5, 6), 3, ""),
	}, domain.SourceManual)

	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, result.RemoveIDs())

	covered := make(map[time.Time]int)
	for _, r := range result.ToCreate {
		for _, d := range domain.EachDay(r.FromDate, r.ToDate) {
			covered[d]++
		}
	}
	for d := 1; d <= 10; d++ {
		assert.Equal(t, 1, covered[day(d)], "day %d covered exactly once", d)
	}
}

func TestMerge_Errors(t *testing.T) {
	t.Run("invalid candidate", func(t *testing.T) {
		bad := restrictionOn(domain.ClosedToArrival, 5, 1)
		_, err := newService(memstore.NewRestrictions()).Merge(context.Background(), []*domain.Restriction{bad}, domain.SourceManual)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown source", func(t *testing.T) {
		_, err := newService(memstore.NewRestrictions()).Merge(context.Background(), nil, domain.Source("OTHER"))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("store failure", func(t *testing.T) {
		store := memstore.NewRestrictions()
		store.FailOn = "Find"
		_, err := newService(store).Merge(context.Background(), []*domain.Restriction{restrictionOn(domain.ClosedToArrival, 1, 1)}, domain.SourceManual)
		assert.ErrorIs(t, err, ErrInternal)
	})
}
