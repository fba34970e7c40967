package apply_restrictions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/service/derived"
	"github.com/m04kA/SMC-RestrictionService/internal/service/merge"
	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions/models"
	"github.com/m04kA/SMC-RestrictionService/internal/testutil/memstore"
	"github.com/m04kA/SMC-RestrictionService/pkg/logger"
	"github.com/m04kA/SMC-RestrictionService/pkg/metrics"
	"github.com/m04kA/SMC-RestrictionService/pkg/ptr"
)

type pushCall struct {
	hotelID  string
	from, to time.Time
}

type fakePusher struct {
	calls []pushCall
	err   error
}

func (p *fakePusher) PushRange(_ context.Context, hotelID string, from, to time.Time) error {
	p.calls = append(p.calls, pushCall{hotelID: hotelID, from: from, to: to})
	return p.err
}

type fixture struct {
	store   *memstore.Restrictions
	tx      *memstore.TxManager
	pusher  *fakePusher
	metrics *metrics.Metrics
	uc      *UseCase
}

func newFixture(batchSize int, settings ...*domain.RatePlanDerivedSetting) *fixture {
	store := memstore.NewRestrictions()
	f := &fixture{
		store:   store,
		tx:      &memstore.TxManager{Restrictions: store},
		pusher:  &fakePusher{},
		metrics: metrics.NewWithRegisterer("test", prometheus.NewRegistry()),
	}
	f.uc = NewUseCase(
		merge.NewService(store, logger.Nop()),
		store,
		derived.NewService(store, memstore.NewDerivedSettings(settings...), logger.Nop()),
		f.pusher,
		f.tx,
		f.metrics,
		logger.Nop(),
		batchSize,
	)
	return f
}

func input(ratePlan, from, to string, minLength *int) models.RestrictionInput {
	return models.RestrictionInput{
		RatePlanIDs: []string{ratePlan},
		FromDate:    from,
		ToDate:      to,
		Type:        string(domain.ClosedToArrival),
		MinLength:   minLength,
	}
}

func TestUseCase_Execute(t *testing.T) {
	f := newFixture(0, &domain.RatePlanDerivedSetting{
		HotelID:                    "h1",
		DerivedRatePlanID:          "p2",
		ParentRatePlanID:           "p1",
		FollowDailyRestriction:     true,
		InheritedRestrictionFields: []domain.Field{domain.FieldMinLength},
	})

	resp, err := f.uc.Execute(context.Background(), &Request{
		HotelID:      "h1",
		Restrictions: []models.RestrictionInput{input("p1", "2025-06-01", "2025-06-05", ptr.Ptr(2))},
	})
	require.NoError(t, err)

	require.Len(t, resp.Created, 1)
	assert.Equal(t, domain.SourceManual, resp.Created[0].Source[domain.FieldMinLength])
	assert.Equal(t, 1, resp.DerivedCreated)
	assert.Len(t, f.store.All(), 2)

	require.Len(t, f.pusher.calls, 1)
	assert.Equal(t, domain.NewDate(2025, time.June, 1), f.pusher.calls[0].from)
	assert.Equal(t, domain.NewDate(2025, time.June, 5), f.pusher.calls[0].to)

}

func TestUseCase_ExecuteIsIdempotent(t *testing.T) {
	f := newFixture(0)
	req := &Request{
		HotelID:      "h1",
		Restrictions: []models.RestrictionInput{input("p1", "2025-06-01", "2025-06-05", ptr.Ptr(2))},
	}

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	first := f.store.All()

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Created)
	assert.Equal(t, first, f.store.All())
}

func TestUseCase_ChunksCandidates(t *testing.T) {
	f := newFixture(1)

	_, err := f.uc.Execute(context.Background(), &Request{
		HotelID: "h1",
		Restrictions: []models.RestrictionInput{
			input("p1", "2025-06-01", "2025-06-01", ptr.Ptr(2)),
			input("p2", "2025-06-01", "2025-06-01", ptr.Ptr(2)),
			input("p3", "2025-06-01", "2025-06-01", ptr.Ptr(2)),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, f.tx.Calls)
	assert.Len(t, f.store.All(), 3)
}

func TestUseCase_PushFailureDoesNotFail(t *testing.T) {
	f := newFixture(0)
	f.pusher.err = errors.New("adapter down")

	resp, err := f.uc.Execute(context.Background(), &Request{
		HotelID:      "h1",
		Restrictions: []models.RestrictionInput{input("p1", "2025-06-01", "2025-06-02", nil)},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Created, 1)
}

func TestUseCase_Validation(t *testing.T) {
	f := newFixture(0)

	tests := []struct {
		name string
		req  *Request
	}{
		{"missing hotel", &Request{Restrictions: []models.RestrictionInput{input("p1", "2025-06-01", "2025-06-02", nil)}}},
		{"no restrictions", &Request{HotelID: "h1"}},
		{"bad date", &Request{HotelID: "h1", Restrictions: []models.RestrictionInput{input("p1", "06/01/2025", "2025-06-02", nil)}}},
		{"reversed period", &Request{HotelID: "h1", Restrictions: []models.RestrictionInput{input("p1", "2025-06-03", "2025-06-02", nil)}}},
		{"unknown source", &Request{HotelID: "h1", Source: "IMPORT", Restrictions: []models.RestrictionInput{input("p1", "2025-06-01", "2025-06-02", nil)}}},
		{"min above max", &Request{HotelID: "h1", Restrictions: []models.RestrictionInput{{
			FromDate: "2025-06-01", ToDate: "2025-06-02", Type: string(domain.ClosedToArrival),
			MinLength: ptr.Ptr(5), MaxLength: ptr.Ptr(3),
		}}}},
		{"unknown weekday", &Request{HotelID: "h1", Restrictions: []models.RestrictionInput{{
			FromDate: "2025-06-01", ToDate: "2025-06-02", Type: string(domain.ClosedToArrival),
			Weekdays: []domain.Weekday{"FUNDAY"},
		}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Empty(t, f.store.All())
	assert.Zero(t, f.tx.Calls)
}

func TestUseCase_PersistFailure(t *testing.T) {
	f := newFixture(0)
	f.store.FailOn = "CreateBatch"

	_, err := f.uc.Execute(context.Background(), &Request{
		HotelID:      "h1",
		Restrictions: []models.RestrictionInput{input("p1", "2025-06-01", "2025-06-02", nil)},
	})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.pusher.calls)
}

type failingProjector struct {
	calls int
}

func (p *failingProjector) Project(_ context.Context, _ string, _ []*domain.Restriction) ([]*domain.Restriction, error) {
	p.calls++
	return nil, errors.New("settings unavailable")
}

func TestUseCase_ProjectionFailureRollsBackChunk(t *testing.T) {
	f := newFixture(1)
	projector := &failingProjector{}
	f.uc.derived = projector

	_, err := f.uc.Execute(context.Background(), &Request{
		HotelID: "h1",
		Restrictions: []models.RestrictionInput{
			input("p1", "2025-06-01", "2025-06-01", ptr.Ptr(2)),
			input("p1", "2025-06-03", "2025-06-03", ptr.Ptr(2)),
		},
	})

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 1, projector.calls)
	assert.Equal(t, 1, f.tx.RolledBack)
	assert.Empty(t, f.store.All(), "parent rows of the failed chunk are not kept")
	assert.Empty(t, f.pusher.calls)
}

func TestUseCase_DerivedRowsWrittenInChunkTransaction(t *testing.T) {
	f := newFixture(1, &domain.RatePlanDerivedSetting{
		HotelID:                    "h1",
		DerivedRatePlanID:          "p2",
		ParentRatePlanID:           "p1",
		FollowDailyRestriction:     true,
		InheritedRestrictionFields: []domain.Field{domain.FieldMinLength},
	})

	resp, err := f.uc.Execute(context.Background(), &Request{
		HotelID: "h1",
		Restrictions: []models.RestrictionInput{
			input("p1", "2025-06-01", "2025-06-01", ptr.Ptr(2)),
			input("p1", "2025-06-03", "2025-06-03", ptr.Ptr(3)),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.DerivedCreated)
	assert.Len(t, f.store.All(), 4)
	assert.Equal(t, 2, f.tx.Calls, "one transaction per chunk")
	assert.Zero(t, f.tx.RolledBack)
}

func TestUseCase_PreviewDoesNotWrite(t *testing.T) {
	f := newFixture(0)

	resp, err := f.uc.Preview(context.Background(), &Request{
		HotelID:      "h1",
		Restrictions: []models.RestrictionInput{input("p1", "2025-06-01", "2025-06-02", ptr.Ptr(3))},
	})
	require.NoError(t, err)
	assert.Len(t, resp.ToCreate, 1)
	assert.Empty(t, resp.ToRemove)
	assert.Empty(t, f.store.All())
}
