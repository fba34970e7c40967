package push_pms_restrictions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/integrations/pmsadapter"
	"github.com/m04kA/SMC-RestrictionService/internal/service/pmssync"
	"github.com/m04kA/SMC-RestrictionService/internal/testutil/memstore"
	"github.com/m04kA/SMC-RestrictionService/pkg/logger"
	"github.com/m04kA/SMC-RestrictionService/pkg/metrics"
	"github.com/m04kA/SMC-RestrictionService/pkg/ptr"
)

var today = domain.NewDate(2025, time.June, 10)

type fixedTime struct{}

func (fixedTime) Now() time.Time { return today.Add(9 * time.Hour) }

type fakePms struct {
	mappings map[string][]pmsadapter.RatePlanMapping
	pushed   map[string][]pmsadapter.RestrictionRecord
	pushErr  map[string]error
}

func newFakePms() *fakePms {
	return &fakePms{
		mappings: make(map[string][]pmsadapter.RatePlanMapping),
		pushed:   make(map[string][]pmsadapter.RestrictionRecord),
		pushErr:  make(map[string]error),
	}
}

func (p *fakePms) ListRatePlanMappings(_ context.Context, hotelID string) ([]pmsadapter.RatePlanMapping, error) {
	m, ok := p.mappings[hotelID]
	if !ok {
		return nil, pmsadapter.ErrHotelNotConnected
	}
	return m, nil
}

func (p *fakePms) PushRestrictions(_ context.Context, hotelID string, records []pmsadapter.RestrictionRecord) (int, error) {
	if err := p.pushErr[hotelID]; err != nil {
		return 0, err
	}
	p.pushed[hotelID] = append(p.pushed[hotelID], records...)
	return len(records), nil
}

func newUseCase(hotels *memstore.HotelConfigs, store *memstore.Restrictions, pms *fakePms) *UseCase {
	uc := NewUseCase(
		hotels,
		store,
		pms,
		pmssync.NewGateWithTime(fixedTime{}),
		metrics.NewWithRegisterer("test", prometheus.NewRegistry()),
		logger.Nop(),
		3,
	)
	uc.timeProvider = fixedTime{}
	return uc
}

func TestUseCase_Execute_CombinesMostRestrictive(t *testing.T) {
	hotels := memstore.NewHotelConfigs(&domain.HotelRestrictionConfig{
		HotelID:            "h1",
		PmsEnabled:         true,
		PushPmsIfLowerThan: ptr.Ptr(10),
	})
	store := memstore.NewRestrictions(
		// Уровень отеля
		&domain.Restriction{HotelID: "h1", FromDate: today, ToDate: today.AddDate(0, 0, 1), Type: domain.ClosedToArrival, MinLength: ptr.Ptr(2), MaxLength: ptr.Ptr(7)},
		// Уровень тарифа, строже по minLength
		&domain.Restriction{HotelID: "h1", RatePlanIDs: []string{"p1"}, FromDate: today, ToDate: today, Type: domain.ClosedToArrival, MinLength: ptr.Ptr(4)},
		// Длинный maxLength не проходит порог
		&domain.Restriction{HotelID: "h1", RatePlanIDs: []string{"p2"}, FromDate: today, ToDate: today, Type: domain.ClosedToArrival, MaxLength: ptr.Ptr(30)},
	)
	pms := newFakePms()
	pms.mappings["h1"] = []pmsadapter.RatePlanMapping{
		{RoomProductID: "rp1", RatePlanID: "p1", PmsCode: "BAR"},
		{RoomProductID: "rp1", RatePlanID: "p3", PmsCode: "NR"},
	}

	resp, err := newUseCase(hotels, store, pms).Execute(context.Background(), &Request{
		HotelID: "h1", From: today, To: today.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Considered)
	assert.Equal(t, 4, resp.Pushed)
	assert.Zero(t, resp.Dropped)

	byKey := make(map[string]pmsadapter.RestrictionRecord)
	for _, rec := range pms.pushed["h1"] {
		byKey[rec.PmsCode+"/"+rec.Date] = rec
	}
	assert.Equal(t, 4, *byKey["BAR/2025-06-10"].MinLength)
	assert.Equal(t, 7, *byKey["BAR/2025-06-10"].MaxLength)
	assert.Equal(t, 2, *byKey["BAR/2025-06-11"].MinLength)
	assert.Equal(t, 2, *byKey["NR/2025-06-10"].MinLength)
}

func TestUseCase_Execute_GateDrops(t *testing.T) {
	hotels := memstore.NewHotelConfigs(&domain.HotelRestrictionConfig{
		HotelID:            "h1",
		PmsEnabled:         true,
		PushPmsPeriod:      ptr.Ptr(1),
		PushPmsIfLowerThan: ptr.Ptr(10),
	})
	store := memstore.NewRestrictions(
		&domain.Restriction{HotelID: "h1", RatePlanIDs: []string{"p2"}, FromDate: today.AddDate(0, 0, -1), ToDate: today.AddDate(0, 0, 1), Type: domain.ClosedToArrival, MaxLength: ptr.Ptr(5)},
		&domain.Restriction{HotelID: "h1", RatePlanIDs: []string{"p3"}, FromDate: today, ToDate: today, Type: domain.ClosedToArrival, MaxLength: ptr.Ptr(30)},
	)
	pms := newFakePms()
	pms.mappings["h1"] = []pmsadapter.RatePlanMapping{
		{RoomProductID: "rp1", RatePlanID: "p2", PmsCode: "A"},
		{RoomProductID: "rp1", RatePlanID: "p3", PmsCode: "B"},
	}

	resp, err := newUseCase(hotels, store, pms).Execute(context.Background(), &Request{
		HotelID: "h1", From: today.AddDate(0, 0, -1), To: today.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Considered)
	assert.Equal(t, 3, resp.Dropped)
	require.Len(t, pms.pushed["h1"], 1)
	assert.Equal(t, "A", pms.pushed["h1"][0].PmsCode)
	assert.Equal(t, "2025-06-10", pms.pushed["h1"][0].Date)
}

func TestUseCase_Execute_SkipsAndErrors(t *testing.T) {
	hotels := memstore.NewHotelConfigs(
		&domain.HotelRestrictionConfig{HotelID: "off"},
		&domain.HotelRestrictionConfig{HotelID: "unmapped", PmsEnabled: true},
	)
	uc := newUseCase(hotels, memstore.NewRestrictions(), newFakePms())
	ctx := context.Background()

	resp, err := uc.Execute(ctx, &Request{HotelID: "off", From: today, To: today})
	require.NoError(t, err)
	assert.True(t, resp.Skipped)

	resp, err = uc.Execute(ctx, &Request{HotelID: "unmapped", From: today, To: today})
	require.NoError(t, err)
	assert.True(t, resp.Skipped)

	_, err = uc.Execute(ctx, &Request{HotelID: "missing", From: today, To: today})
	assert.ErrorIs(t, err, ErrHotelNotFound)

	_, err = uc.Execute(ctx, &Request{HotelID: "off", From: today, To: today.AddDate(0, 0, -1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_ExecuteAll_ContinuesAfterFailure(t *testing.T) {
	hotels := memstore.NewHotelConfigs(
		&domain.HotelRestrictionConfig{HotelID: "h1", PmsEnabled: true},
		&domain.HotelRestrictionConfig{HotelID: "h2", PmsEnabled: true},
		&domain.HotelRestrictionConfig{HotelID: "h3", PmsEnabled: true},
	)
	store := memstore.NewRestrictions(
		&domain.Restriction{HotelID: "h1", FromDate: today, ToDate: today, Type: domain.ClosedToStay},
		&domain.Restriction{HotelID: "h2", FromDate: today, ToDate: today, Type: domain.ClosedToStay},
	)
	pms := newFakePms()
	pms.mappings["h1"] = []pmsadapter.RatePlanMapping{{RoomProductID: "rp", RatePlanID: "p", PmsCode: "X"}}
	pms.mappings["h2"] = []pmsadapter.RatePlanMapping{{RoomProductID: "rp", RatePlanID: "p", PmsCode: "X"}}
	pms.pushErr["h1"] = errors.New("timeout")

	resp, err := newUseCase(hotels, store, pms).ExecuteAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"h2"}, resp.Report.Succeeded())
	assert.Equal(t, []string{"h3"}, resp.Report.Skipped())
	require.Len(t, resp.Report.Failed(), 1)
	assert.Equal(t, "h1", resp.Report.Failed()[0].Key)
	assert.ErrorIs(t, resp.Report.Err(), ErrInternal)

	require.Len(t, pms.pushed["h2"], 1)
	assert.Equal(t, "ClosedToStay", pms.pushed["h2"][0].Type)
}
