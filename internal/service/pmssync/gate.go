package pmssync

import (
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/service/pmssync/models"
)

// Gate решает, какие рассчитанные ограничения отправлять в PMS
type Gate struct {
	timeProvider TimeProvider
}

// NewGate создает шлюз с реальным временем
func NewGate() *Gate {
	return &Gate{timeProvider: &RealTimeProvider{}}
}

// NewGateWithTime создает шлюз с заданным провайдером времени
func NewGateWithTime(tp TimeProvider) *Gate {
	return &Gate{timeProvider: tp}
}

// Filter отбрасывает записи вне окна [today, today+pushPmsPeriod) и записи с maxLength >= pushPmsIfLowerThan.
// Прошедшие даты отбрасываются всегда. Отброшенные записи не являются ошибкой.
func (g *Gate) Filter(cfg *domain.HotelRestrictionConfig, records []models.Record) *models.FilterResult {
	result := &models.FilterResult{Kept: make([]models.Record, 0, len(records))}
	today := domain.DateOnly(g.timeProvider.Now().UTC())

	for _, rec := range records {
		if !withinPeriod(cfg, rec.Date, today) {
			result.DroppedByPeriod++
			continue
		}
		if !belowMaxStayThreshold(cfg, rec.Restriction) {
			result.DroppedByMaxStay++
			continue
		}
		result.Kept = append(result.Kept, rec)
	}

	return result
}

// withinPeriod окно из pushPmsPeriod дней, начиная с сегодняшнего
func withinPeriod(cfg *domain.HotelRestrictionConfig, date, today time.Time) bool {
	date = domain.DateOnly(date)
	if date.Before(today) {
		return false
	}
	if cfg == nil || cfg.PushPmsPeriod == nil {
		return true
	}
	return date.Before(today.AddDate(0, 0, *cfg.PushPmsPeriod))
}

// belowMaxStayThreshold запись без maxLength проходит всегда
func belowMaxStayThreshold(cfg *domain.HotelRestrictionConfig, r *domain.Restriction) bool {
	if cfg == nil || cfg.PushPmsIfLowerThan == nil || r == nil || r.MaxLength == nil {
		return true
	}
	return *r.MaxLength < *cfg.PushPmsIfLowerThan
}
