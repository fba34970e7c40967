package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/infra/storage/automation"
	"github.com/m04kA/SMC-RestrictionService/internal/infra/storage/derivedsetting"
)

// DerivedSettings is an in-memory rate plan derived setting store
type DerivedSettings struct {
	mu   sync.Mutex
	seq  int64
	rows []*domain.RatePlanDerivedSetting
}

func NewDerivedSettings(seed ...*domain.RatePlanDerivedSetting) *DerivedSettings {
	s := &DerivedSettings{}
	for _, setting := range seed {
		_, _ = s.Upsert(context.Background(), setting)
	}
	return s
}

func (s *DerivedSettings) FindFollowingByParents(_ context.Context, hotelID string, parentRatePlanIDs []string) ([]*domain.RatePlanDerivedSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.RatePlanDerivedSetting, 0)
	for _, setting := range s.rows {
		if setting.HotelID == hotelID && setting.FollowDailyRestriction && domain.ContainsID(parentRatePlanIDs, setting.ParentRatePlanID) {
			c := *setting
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ParentRatePlanID != out[j].ParentRatePlanID {
			return out[i].ParentRatePlanID < out[j].ParentRatePlanID
		}
		return out[i].DerivedRatePlanID < out[j].DerivedRatePlanID
	})
	return out, nil
}

func (s *DerivedSettings) GetByDerived(_ context.Context, hotelID, derivedRatePlanID string) (*domain.RatePlanDerivedSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, setting := range s.rows {
		if setting.HotelID == hotelID && setting.DerivedRatePlanID == derivedRatePlanID {
			c := *setting
			return &c, nil
		}
	}
	return nil, derivedsetting.ErrSettingNotFound
}

func (s *DerivedSettings) Upsert(_ context.Context, setting *domain.RatePlanDerivedSetting) (*domain.RatePlanDerivedSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *setting
	for i, existing := range s.rows {
		if existing.HotelID == setting.HotelID && existing.DerivedRatePlanID == setting.DerivedRatePlanID {
			c.ID = existing.ID
			s.rows[i] = &c
			setting.ID = c.ID
			return setting, nil
		}
	}
	s.seq++
	c.ID = s.seq
	s.rows = append(s.rows, &c)
	setting.ID = c.ID
	return setting, nil
}

// AutomationSettings is an in-memory restriction automation setting store
type AutomationSettings struct {
	mu   sync.Mutex
	seq  int64
	rows []*domain.RestrictionAutomationSetting
}

func NewAutomationSettings(seed ...*domain.RestrictionAutomationSetting) *AutomationSettings {
	s := &AutomationSettings{}
	for _, setting := range seed {
		_, _ = s.Upsert(context.Background(), setting)
	}
	return s
}

func (s *AutomationSettings) GetByScope(_ context.Context, hotelID string, roomProductID, ratePlanID *string) (*domain.RestrictionAutomationSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, setting := range s.rows {
		if setting.HotelID == hotelID && sameOptional(setting.RoomProductID, roomProductID) && sameOptional(setting.RatePlanID, ratePlanID) {
			c := *setting
			return &c, nil
		}
	}
	return nil, automation.ErrSettingNotFound
}

func (s *AutomationSettings) GetWithHierarchy(ctx context.Context, hotelID string, roomProductID, ratePlanID *string) (*domain.RestrictionAutomationSetting, error) {
	if roomProductID == nil && ratePlanID == nil {
		return nil, automation.ErrInvalidScope
	}
	levels := [][2]*string{{roomProductID, ratePlanID}, {nil, ratePlanID}, {roomProductID, nil}}
	for _, level := range levels {
		if level[0] == nil && level[1] == nil {
			continue
		}
		if setting, err := s.GetByScope(ctx, hotelID, level[0], level[1]); err == nil {
			return setting, nil
		}
	}
	return nil, automation.ErrSettingNotFound
}

func (s *AutomationSettings) ListEnabledRoomProducts(_ context.Context, hotelID string, roomProductIDs []string) ([]*domain.RestrictionAutomationSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.RestrictionAutomationSetting, 0)
	for _, setting := range s.rows {
		if setting.HotelID != hotelID || !setting.IsEnabled || !setting.IsRoomProductSetting() {
			continue
		}
		if len(roomProductIDs) > 0 && !domain.ContainsID(roomProductIDs, *setting.RoomProductID) {
			continue
		}
		c := *setting
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].RoomProductID < *out[j].RoomProductID })
	return out, nil
}

func (s *AutomationSettings) ListHotelsWithEnabled(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, setting := range s.rows {
		if setting.IsEnabled && setting.IsRoomProductSetting() && !seen[setting.HotelID] {
			seen[setting.HotelID] = true
			out = append(out, setting.HotelID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *AutomationSettings) Upsert(_ context.Context, setting *domain.RestrictionAutomationSetting) (*domain.RestrictionAutomationSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *setting
	for i, existing := range s.rows {
		if existing.HotelID == setting.HotelID && sameOptional(existing.RoomProductID, setting.RoomProductID) && sameOptional(existing.RatePlanID, setting.RatePlanID) {
			c.ID = existing.ID
			s.rows[i] = &c
			setting.ID = c.ID
			return setting, nil
		}
	}
	s.seq++
	c.ID = s.seq
	s.rows = append(s.rows, &c)
	setting.ID = c.ID
	return setting, nil
}

func sameOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
