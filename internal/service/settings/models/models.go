package models

import (
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
)

// Request модели

// DerivedSettingRequest запрос на сохранение настройки производного тарифа
type DerivedSettingRequest struct {
	HotelID                    string         `json:"-"`
	DerivedRatePlanID          string         `json:"-"`
	ParentRatePlanID           string         `json:"parentRatePlanId"`
	FollowDailyRestriction     bool           `json:"followDailyRestriction"`
	InheritedRestrictionFields []domain.Field `json:"inheritedRestrictionFields"`
}

// AutomationSettingRequest запрос на сохранение настройки LOS-автоматизации
type AutomationSettingRequest struct {
	HotelID       string                    `json:"-"`
	RoomProductID *string                   `json:"roomProductId,omitempty"` // NULL = настройка тарифа
	RatePlanID    *string                   `json:"ratePlanId,omitempty"`    // NULL = настройка room product
	IsEnabled     bool                      `json:"isEnabled"`
	Settings      domain.AutomationSettings `json:"settings"`
}

// Response модели

// DerivedSettingResponse ответ с настройкой производного тарифа
type DerivedSettingResponse struct {
	ID                         int64          `json:"id"`
	HotelID                    string         `json:"hotelId"`
	DerivedRatePlanID          string         `json:"derivedRatePlanId"`
	ParentRatePlanID           string         `json:"parentRatePlanId"`
	FollowDailyRestriction     bool           `json:"followDailyRestriction"`
	InheritedRestrictionFields []domain.Field `json:"inheritedRestrictionFields"`
	UpdatedAt                  time.Time      `json:"updatedAt"`
}

// AutomationSettingResponse ответ с настройкой LOS-автоматизации
type AutomationSettingResponse struct {
	ID            int64                     `json:"id"`
	HotelID       string                    `json:"hotelId"`
	RoomProductID *string                   `json:"roomProductId,omitempty"`
	RatePlanID    *string                   `json:"ratePlanId,omitempty"`
	IsEnabled     bool                      `json:"isEnabled"`
	Settings      domain.AutomationSettings `json:"settings"`
	UpdatedAt     time.Time                 `json:"updatedAt"`
}

// Методы конвертации

// ToDomain конвертирует запрос в domain модель
func (r *DerivedSettingRequest) ToDomain() *domain.RatePlanDerivedSetting {
	return &domain.RatePlanDerivedSetting{
		HotelID:                    r.HotelID,
		DerivedRatePlanID:          r.DerivedRatePlanID,
		ParentRatePlanID:           r.ParentRatePlanID,
		FollowDailyRestriction:     r.FollowDailyRestriction,
		InheritedRestrictionFields: r.InheritedRestrictionFields,
	}
}

// ToDomain конвертирует запрос в domain модель
func (r *AutomationSettingRequest) ToDomain() *domain.RestrictionAutomationSetting {
	return &domain.RestrictionAutomationSetting{
		HotelID:       r.HotelID,
		RoomProductID: r.RoomProductID,
		RatePlanID:    r.RatePlanID,
		IsEnabled:     r.IsEnabled,
		Settings:      r.Settings,
	}
}

// FromDomainDerivedSetting конвертирует domain модель в DTO
func FromDomainDerivedSetting(s *domain.RatePlanDerivedSetting) *DerivedSettingResponse {
	if s == nil {
		return nil
	}
	fields := s.InheritedRestrictionFields
	if fields == nil {
		fields = []domain.Field{}
	}
	return &DerivedSettingResponse{
		ID:                         s.ID,
		HotelID:                    s.HotelID,
		DerivedRatePlanID:          s.DerivedRatePlanID,
		ParentRatePlanID:           s.ParentRatePlanID,
		FollowDailyRestriction:     s.FollowDailyRestriction,
		InheritedRestrictionFields: fields,
		UpdatedAt:                  s.UpdatedAt,
	}
}

// FromDomainAutomationSetting конвертирует domain модель в DTO
func FromDomainAutomationSetting(s *domain.RestrictionAutomationSetting) *AutomationSettingResponse {
	if s == nil {
		return nil
	}
	return &AutomationSettingResponse{
		ID:            s.ID,
		HotelID:       s.HotelID,
		RoomProductID: s.RoomProductID,
		RatePlanID:    s.RatePlanID,
		IsEnabled:     s.IsEnabled,
		Settings:      s.Settings,
		UpdatedAt:     s.UpdatedAt,
	}
}
