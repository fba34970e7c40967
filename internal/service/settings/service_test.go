package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/service/settings/models"
	"github.com/m04kA/SMC-RestrictionService/internal/testutil/memstore"
	"github.com/m04kA/SMC-RestrictionService/pkg/logger"
	"github.com/m04kA/SMC-RestrictionService/pkg/ptr"
)

func newService() *Service {
	return NewService(memstore.NewDerivedSettings(), memstore.NewAutomationSettings(), logger.Nop())
}

func TestService_DerivedSetting(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.GetDerivedSetting(ctx, "h1", "p2")
	assert.ErrorIs(t, err, ErrSettingNotFound)

	saved, err := svc.UpsertDerivedSetting(ctx, &models.DerivedSettingRequest{
		HotelID:                    "h1",
		DerivedRatePlanID:          "p2",
		ParentRatePlanID:           "p1",
		FollowDailyRestriction:     true,
		InheritedRestrictionFields: []domain.Field{domain.FieldMinLength},
	})
	require.NoError(t, err)

	updated, err := svc.UpsertDerivedSetting(ctx, &models.DerivedSettingRequest{
		HotelID:           "h1",
		DerivedRatePlanID: "p2",
		ParentRatePlanID:  "p3",
	})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)

	got, err := svc.GetDerivedSetting(ctx, "h1", "p2")
	require.NoError(t, err)
	assert.Equal(t, "p3", got.ParentRatePlanID)
	assert.False(t, got.FollowDailyRestriction)
	assert.Empty(t, got.InheritedRestrictionFields)
}

func TestService_DerivedSettingValidation(t *testing.T) {
	svc := newService()

	cases := []*models.DerivedSettingRequest{
		{HotelID: "", DerivedRatePlanID: "p2", ParentRatePlanID: "p1"},
		{HotelID: "h1", DerivedRatePlanID: "p1", ParentRatePlanID: "p1"},
		{HotelID: "h1", DerivedRatePlanID: "p2", ParentRatePlanID: "p1", InheritedRestrictionFields: []domain.Field{"closedToArrival"}},
	}
	for _, req := range cases {
		_, err := svc.UpsertDerivedSetting(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestService_AutomationSetting(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	saved, err := svc.UpsertAutomationSetting(ctx, &models.AutomationSettingRequest{
		HotelID:       "h1",
		RoomProductID: ptr.Ptr("rp1"),
		IsEnabled:     true,
		Settings:      domain.AutomationSettings{DefaultMinLength: ptr.Ptr(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.GapFillFilling, saved.Settings.GapFillMode)

	// Настройки пары нет - берётся уровень room product
	got, err := svc.GetAutomationSetting(ctx, "h1", ptr.Ptr("rp1"), ptr.Ptr("rate1"))
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)

	_, err = svc.GetAutomationSetting(ctx, "h1", nil, ptr.Ptr("rate1"))
	assert.ErrorIs(t, err, ErrSettingNotFound)

	_, err = svc.GetAutomationSetting(ctx, "h1", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpsertAutomationSetting(ctx, &models.AutomationSettingRequest{
		HotelID:       "h1",
		RoomProductID: ptr.Ptr("rp1"),
		Settings:      domain.AutomationSettings{GapFillMode: "SOMETIMES"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
