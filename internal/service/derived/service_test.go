package derived

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/service/merge"
	"github.com/m04kA/SMC-RestrictionService/internal/testutil/memstore"
	"github.com/m04kA/SMC-RestrictionService/pkg/logger"
	"github.com/m04kA/SMC-RestrictionService/pkg/ptr"
)

var june1 = domain.NewDate(2025, time.June, 1)

type fixture struct {
	store   *memstore.Restrictions
	merger  *merge.Service
	derived *Service
}

func newFixture(inherited ...domain.Field) *fixture {
	store := memstore.NewRestrictions()
	settings := memstore.NewDerivedSettings(&domain.RatePlanDerivedSetting{
		HotelID:                    "H",
		DerivedRatePlanID:          "P2",
		ParentRatePlanID:           "P1",
		FollowDailyRestriction:     true,
		InheritedRestrictionFields: inherited,
	})
	return &fixture{
		store:   store,
		merger:  merge.NewService(store, logger.Nop()),
		derived: NewService(store, settings, logger.Nop()),
	}
}

// apply merges, persists and projects the created rows once, without recursion
func (f *fixture) apply(t *testing.T, source domain.Source, candidates ...*domain.Restriction) {
	t.Helper()
	ctx := context.Background()

	result, err := f.merger.Merge(ctx, candidates, source)
	require.NoError(t, err)
	created, err := f.store.Persist(ctx, "H", result.ToCreate, result.RemoveIDs())
	require.NoError(t, err)

	projected, err := f.derived.Project(ctx, "H", created)
	require.NoError(t, err)
	if len(projected) == 0 {
		return
	}

	result, err = f.merger.Merge(ctx, projected, source)
	require.NoError(t, err)
	_, err = f.store.Persist(ctx, "H", result.ToCreate, result.RemoveIDs())
	require.NoError(t, err)
}

func (f *fixture) ratePlanRows(ratePlanID string) []*domain.Restriction {
	out := make([]*domain.Restriction, 0)
	for _, r := range f.store.All() {
		if domain.ContainsID(r.RatePlanIDs, ratePlanID) {
			out = append(out, r)
		}
	}
	return out
}

func parentRow(minLength, maxLength *int) *domain.Restriction {
	return &domain.Restriction{
		HotelID:        "H",
		RoomProductIDs: []string{"R"},
		RatePlanIDs:    []string{"P1"},
		FromDate:       june1,
		ToDate:         june1,
		Type:           domain.ClosedToArrival,
		MinLength:      minLength,
		MaxLength:      maxLength,
	}
}

func TestDerived_CreateAndDeleteScenario(t *testing.T) {
	f := newFixture(domain.FieldMinLength)
	ctx := context.Background()

	f.apply(t, domain.SourceManual, parentRow(ptr.Ptr(2), nil))

	children := f.ratePlanRows("P2")
	require.Len(t, children, 1)
	child := children[0]
	assert.Equal(t, 2, *child.MinLength)
	assert.True(t, child.IsDerived())
	assert.Equal(t, []string{"R"}, child.RoomProductIDs)
	assert.Equal(t, june1, child.FromDate)
	assert.Equal(t, june1, child.ToDate)
	assert.Equal(t, domain.SourceManual, child.SourceOf(domain.FieldMinLength))

	parents := f.ratePlanRows("P1")
	require.Len(t, parents, 1)
	require.NotNil(t, child.Metadata.ParentRestrictionID)
	assert.Equal(t, parents[0].ID, *child.Metadata.ParentRestrictionID)

	_, err := f.store.Persist(ctx, "H", nil, []string{parents[0].ID})
	require.NoError(t, err)
	cleanup, err := f.derived.Detach(ctx, "H", parents)
	require.NoError(t, err)
	assert.Empty(t, cleanup.ToCreate)
	require.Len(t, cleanup.ToRemove, 1)

	_, err = f.store.Persist(ctx, "H", cleanup.ToCreate, cleanup.RemoveIDs())
	require.NoError(t, err)
	assert.Empty(t, f.store.All())
}

func TestDerived_DeleteKeepsIndependentFields(t *testing.T) {
	f := newFixture(domain.FieldMinLength)
	ctx := context.Background()

	parent := parentRow(ptr.Ptr(2), nil)
	parent.ID = "parent"
	child := &domain.Restriction{
		HotelID:        "H",
		RoomProductIDs: []string{"R"},
		RatePlanIDs:    []string{"P2"},
		FromDate:       june1,
		ToDate:         june1,
		Type:           domain.ClosedToArrival,
		MinLength:      ptr.Ptr(2),
		MaxLength:      ptr.Ptr(9),
		Source:         domain.SourceMap{domain.FieldMinLength: domain.SourceManual, domain.FieldMaxLength: domain.SourceManual},
		Metadata:       &domain.Metadata{IsDerived: true, ParentRestrictionID: ptr.Ptr("parent")},
	}
	f.store = memstore.NewRestrictions(child)
	f.derived.restrictions = f.store

	cleanup, err := f.derived.Detach(ctx, "H", []*domain.Restriction{parent})
	require.NoError(t, err)
	require.Len(t, cleanup.ToRemove, 1)
	require.Len(t, cleanup.ToCreate, 1)

	replaced := cleanup.ToCreate[0]
	assert.Nil(t, replaced.MinLength)
	assert.Equal(t, 9, *replaced.MaxLength)
	assert.False(t, replaced.IsDerived())
	assert.Equal(t, domain.Source(""), replaced.SourceOf(domain.FieldMinLength))
}

func TestDerived_DetachPeriodKeepsChildOutsidePeriod(t *testing.T) {
	f := newFixture(domain.FieldMinLength)
	ctx := context.Background()

	parent := parentRow(ptr.Ptr(2), nil)
	parent.ID = "parent"
	parent.ToDate = june1.AddDate(0, 0, 9)
	child := &domain.Restriction{
		HotelID:        "H",
		RoomProductIDs: []string{"R"},
		RatePlanIDs:    []string{"P2"},
		FromDate:       june1,
		ToDate:         june1.AddDate(0, 0, 9),
		Type:           domain.ClosedToArrival,
		MinLength:      ptr.Ptr(2),
		MaxLength:      ptr.Ptr(9),
		Metadata:       &domain.Metadata{IsDerived: true, ParentRestrictionID: ptr.Ptr("parent")},
	}
	f.store = memstore.NewRestrictions(child)
	f.derived.restrictions = f.store

	june5 := june1.AddDate(0, 0, 4)
	cleanup, err := f.derived.DetachPeriod(ctx, "H", []*domain.Restriction{parent}, june5, june5)
	require.NoError(t, err)
	require.Len(t, cleanup.ToRemove, 1)
	require.Len(t, cleanup.ToCreate, 3)

	before, after, inside := cleanup.ToCreate[0], cleanup.ToCreate[1], cleanup.ToCreate[2]

	assert.Equal(t, june1, before.FromDate)
	assert.Equal(t, june1.AddDate(0, 0, 3), before.ToDate)
	assert.Equal(t, 2, *before.MinLength)
	assert.True(t, before.IsDerived())

	assert.Equal(t, june1.AddDate(0, 0, 5), after.FromDate)
	assert.Equal(t, june1.AddDate(0, 0, 9), after.ToDate)
	assert.Equal(t, 2, *after.MinLength)
	assert.True(t, after.IsDerived())

	assert.Equal(t, june5, inside.FromDate)
	assert.Equal(t, june5, inside.ToDate)
	assert.Nil(t, inside.MinLength)
	assert.Equal(t, 9, *inside.MaxLength)
	assert.False(t, inside.IsDerived())
}

func TestDerived_InheritanceScope(t *testing.T) {
	f := newFixture(domain.FieldMinLength)

	f.apply(t, domain.SourceManual, parentRow(ptr.Ptr(2), ptr.Ptr(5)))

	children := f.ratePlanRows("P2")
	require.Len(t, children, 1)
	assert.Equal(t, 2, *children[0].MinLength)
	assert.Nil(t, children[0].MaxLength, "maxLength is not inherited")

	// Независимое значение производного тарифа
	f.apply(t, domain.SourceManual, &domain.Restriction{
		HotelID:        "H",
		RoomProductIDs: []string{"R"},
		RatePlanIDs:    []string{"P2"},
		FromDate:       june1,
		ToDate:         june1,
		Type:           domain.ClosedToArrival,
		MinLength:      ptr.Ptr(2),
		MaxLength:      ptr.Ptr(9),
	})

	f.apply(t, domain.SourceManual, parentRow(ptr.Ptr(3), ptr.Ptr(4)))

	children = f.ratePlanRows("P2")
	require.Len(t, children, 1)
	assert.Equal(t, 3, *children[0].MinLength)
	assert.Equal(t, 9, *children[0].MaxLength)
	assert.True(t, children[0].IsDerived())
}

func TestDerived_PureBlockingParentPropagatesBlock(t *testing.T) {
	f := newFixture(domain.FieldMinLength)

	parent := parentRow(nil, nil)
	parent.Type = domain.ClosedToStay
	f.apply(t, domain.SourceManual, parent)

	children := f.ratePlanRows("P2")
	require.Len(t, children, 1)
	assert.True(t, children[0].IsPureBlocking())
	assert.Equal(t, domain.ClosedToStay, children[0].Type)
}

func TestDerived_SkipsExceptionWithoutInheritedValues(t *testing.T) {
	f := newFixture(domain.FieldMinAdv)

	f.apply(t, domain.SourceManual, parentRow(ptr.Ptr(2), nil))

	assert.Empty(t, f.ratePlanRows("P2"))
}

func TestDerived_NoSettings(t *testing.T) {
	store := memstore.NewRestrictions()
	svc := NewService(store, memstore.NewDerivedSettings(), logger.Nop())

	projected, err := svc.Project(context.Background(), "H", []*domain.Restriction{parentRow(ptr.Ptr(2), nil)})
	require.NoError(t, err)
	assert.Empty(t, projected)

	houseLevel := &domain.Restriction{HotelID: "H", FromDate: june1, ToDate: june1, Type: domain.ClosedToStay}
	projected, err = svc.Project(context.Background(), "H", []*domain.Restriction{houseLevel})
	require.NoError(t, err)
	assert.Empty(t, projected)
}
