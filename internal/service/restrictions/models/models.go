package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
)

// Request модели

// RestrictionInput ограничение во входящем запросе. Даты в формате YYYY-MM-DD.
type RestrictionInput struct {
	RoomProductIDs      []string         `json:"roomProductIds,omitempty"` // nil = все room products
	RatePlanIDs         []string         `json:"ratePlanIds,omitempty"`    // nil = все тарифы
	FromDate            string           `json:"fromDate"`
	ToDate              string           `json:"toDate"`
	Weekdays            []domain.Weekday `json:"weekdays,omitempty"` // пусто = все дни
	Type                string           `json:"type"`
	MinLength           *int             `json:"minLength,omitempty"`
	MaxLength           *int             `json:"maxLength,omitempty"`
	MinAdv              *int             `json:"minAdv,omitempty"`
	MaxAdv              *int             `json:"maxAdv,omitempty"`
	MinLosThrough       *int             `json:"minLosThrough,omitempty"`
	MaxReservationCount *int             `json:"maxReservationCount,omitempty"`
	Source              domain.SourceMap `json:"restrictionSource,omitempty"`
}

// DeleteRangeRequest удаление ограничений скоупа в периоде
type DeleteRangeRequest struct {
	HotelID        string                   `json:"-"`
	RoomProductIDs []string                 `json:"roomProductIds,omitempty"`
	RatePlanIDs    []string                 `json:"ratePlanIds,omitempty"`
	FromDate       string                   `json:"fromDate"`
	ToDate         string                   `json:"toDate"`
	Types          []domain.RestrictionType `json:"types,omitempty"` // пусто = все типы
}

// CalendarRequest запрос эффективного календаря
type CalendarRequest struct {
	HotelID       string
	From          string
	To            string
	Policy        string
	RoomProductID string // пусто = без фильтра
	RatePlanID    string // пусто = без фильтра
}

// Response модели

// RestrictionResponse ограничение в ответе
type RestrictionResponse struct {
	ID                  string           `json:"id,omitempty"`
	HotelID             string           `json:"hotelId"`
	RoomProductIDs      []string         `json:"roomProductIds,omitempty"`
	RatePlanIDs         []string         `json:"ratePlanIds,omitempty"`
	FromDate            string           `json:"fromDate"`
	ToDate              string           `json:"toDate"`
	Weekdays            []domain.Weekday `json:"weekdays"`
	Type                string           `json:"type"`
	MinLength           *int             `json:"minLength,omitempty"`
	MaxLength           *int             `json:"maxLength,omitempty"`
	MinAdv              *int             `json:"minAdv,omitempty"`
	MaxAdv              *int             `json:"maxAdv,omitempty"`
	MinLosThrough       *int             `json:"minLosThrough,omitempty"`
	MaxReservationCount *int             `json:"maxReservationCount,omitempty"`
	Source              domain.SourceMap `json:"restrictionSource,omitempty"`
	Metadata            *domain.Metadata `json:"metadata,omitempty"`
	CreatedAt           *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt           *time.Time       `json:"updatedAt,omitempty"`
}

// RestrictionListResponse список ограничений
type RestrictionListResponse struct {
	Restrictions []RestrictionResponse `json:"restrictions"`
}

// DeleteRangeResponse результат удаления по периоду
type DeleteRangeResponse struct {
	Deleted   int `json:"deleted"`
	Recreated int `json:"recreated"`
	Detached  int `json:"detached"`
}

// CalendarDayResponse эффективное ограничение одной даты
type CalendarDayResponse struct {
	Date        string               `json:"date"`
	Restriction *RestrictionResponse `json:"restriction"`
}

// CalendarResponse эффективный календарь
type CalendarResponse struct {
	HotelID string                `json:"hotelId"`
	Policy  string                `json:"policy"`
	Days    []CalendarDayResponse `json:"days"`
}

// Методы конвертации

// ToDomain конвертирует входное ограничение в domain модель
func (in *RestrictionInput) ToDomain(hotelID string) (*domain.Restriction, error) {
	from, err := domain.ParseDate(in.FromDate)
	if err != nil {
		return nil, fmt.Errorf("fromDate: %v", err)
	}
	to, err := domain.ParseDate(in.ToDate)
	if err != nil {
		return nil, fmt.Errorf("toDate: %v", err)
	}

	return &domain.Restriction{
		HotelID:             hotelID,
		RoomProductIDs:      in.RoomProductIDs,
		RatePlanIDs:         in.RatePlanIDs,
		FromDate:            from,
		ToDate:              to,
		Weekdays:            in.Weekdays,
		Type:                domain.RestrictionType(in.Type),
		MinLength:           in.MinLength,
		MaxLength:           in.MaxLength,
		MinAdv:              in.MinAdv,
		MaxAdv:              in.MaxAdv,
		MinLosThrough:       in.MinLosThrough,
		MaxReservationCount: in.MaxReservationCount,
		Source:              in.Source.Clone(),
	}, nil
}

// FromDomainRestriction конвертирует domain модель в DTO
func FromDomainRestriction(r *domain.Restriction) *RestrictionResponse {
	if r == nil {
		return nil
	}

	resp := &RestrictionResponse{
		ID:                  r.ID,
		HotelID:             r.HotelID,
		RoomProductIDs:      r.RoomProductIDs,
		RatePlanIDs:         r.RatePlanIDs,
		FromDate:            r.FromDate.Format(domain.DateFormat),
		ToDate:              r.ToDate.Format(domain.DateFormat),
		Weekdays:            r.Weekdays,
		Type:                string(r.Type),
		MinLength:           r.MinLength,
		MaxLength:           r.MaxLength,
		MinAdv:              r.MinAdv,
		MaxAdv:              r.MaxAdv,
		MinLosThrough:       r.MinLosThrough,
		MaxReservationCount: r.MaxReservationCount,
		Source:              r.Source,
		Metadata:            r.Metadata,
	}
	if !r.CreatedAt.IsZero() {
		createdAt, updatedAt := r.CreatedAt, r.UpdatedAt
		resp.CreatedAt = &createdAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}

// FromDomainRestrictionList конвертирует список domain моделей в DTO
func FromDomainRestrictionList(rows []*domain.Restriction) *RestrictionListResponse {
	resp := &RestrictionListResponse{
		Restrictions: make([]RestrictionResponse, 0, len(rows)),
	}
	for _, r := range rows {
		if dto := FromDomainRestriction(r); dto != nil {
			resp.Restrictions = append(resp.Restrictions, *dto)
		}
	}
	return resp
}

// FromCalendarDays конвертирует дни календаря в DTO
func FromCalendarDays(hotelID, policy string, days []domain.CalendarDay) *CalendarResponse {
	resp := &CalendarResponse{
		HotelID: hotelID,
		Policy:  policy,
		Days:    make([]CalendarDayResponse, 0, len(days)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, CalendarDayResponse{
			Date:        d.Date.Format(domain.DateFormat),
			Restriction: FromDomainRestriction(d.Restriction),
		})
	}
	return resp
}
