package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/infra/storage/hotelconfig"
)

// HotelConfigs is an in-memory hotel configuration provider
type HotelConfigs struct {
	rows map[string]*domain.HotelRestrictionConfig
}

func NewHotelConfigs(seed ...*domain.HotelRestrictionConfig) *HotelConfigs {
	s := &HotelConfigs{rows: make(map[string]*domain.HotelRestrictionConfig)}
	for _, cfg := range seed {
		c := *cfg
		s.rows[cfg.HotelID] = &c
	}
	return s
}

func (s *HotelConfigs) Get(_ context.Context, hotelID string) (*domain.HotelRestrictionConfig, error) {
	cfg, ok := s.rows[hotelID]
	if !ok {
		return nil, hotelconfig.ErrHotelNotFound
	}
	c := *cfg
	return &c, nil
}

func (s *HotelConfigs) ListPmsEnabledHotels(_ context.Context) ([]string, error) {
	out := make([]string, 0)
	for id, cfg := range s.rows {
		if cfg.PmsEnabled {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

// RoomUnits is an in-memory room unit availability source keyed by room product
type RoomUnits struct {
	units map[string][]*domain.RoomUnitAvailability
}

func NewRoomUnits() *RoomUnits {
	return &RoomUnits{units: make(map[string][]*domain.RoomUnitAvailability)}
}

// Add registers a unit of the room product; available lists the AVAILABLE dates
func (s *RoomUnits) Add(roomProductID, roomUnitID string, available ...time.Time) {
	statuses := make(map[time.Time]domain.RoomUnitStatus, len(available))
	for _, d := range available {
		statuses[domain.DateOnly(d)] = domain.RoomUnitAvailable
	}
	s.units[roomProductID] = append(s.units[roomProductID], &domain.RoomUnitAvailability{
		RoomUnitID:    roomUnitID,
		RoomProductID: roomProductID,
		Statuses:      statuses,
	})
}

// SetStatus changes the status of a registered unit on one date
func (s *RoomUnits) SetStatus(roomProductID, roomUnitID string, date time.Time, status domain.RoomUnitStatus) {
	for _, unit := range s.units[roomProductID] {
		if unit.RoomUnitID == roomUnitID {
			unit.Statuses[domain.DateOnly(date)] = status
		}
	}
}

func (s *RoomUnits) ListAvailability(_ context.Context, _ string, roomProductID string, from, to time.Time) ([]*domain.RoomUnitAvailability, error) {
	out := make([]*domain.RoomUnitAvailability, 0)
	for _, unit := range s.units[roomProductID] {
		statuses := make(map[time.Time]domain.RoomUnitStatus)
		for d, st := range unit.Statuses {
			if !d.Before(domain.DateOnly(from)) && !d.After(domain.DateOnly(to)) {
				statuses[d] = st
			}
		}
		out = append(out, &domain.RoomUnitAvailability{RoomUnitID: unit.RoomUnitID, RoomProductID: roomProductID, Statuses: statuses})
	}
	return out, nil
}
