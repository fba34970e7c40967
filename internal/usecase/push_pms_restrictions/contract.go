package push_pms_restrictions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/integrations/pmsadapter"
	pmssyncModels "github.com/m04kA/SMC-RestrictionService/internal/service/pmssync/models"
)

// HotelConfigProvider интерфейс настроек отеля
type HotelConfigProvider interface {
	Get(ctx context.Context, hotelID string) (*domain.HotelRestrictionConfig, error)
	ListPmsEnabledHotels(ctx context.Context) ([]string, error)
}

// RestrictionReader интерфейс чтения ограничений
type RestrictionReader interface {
	Find(ctx context.Context, filter domain.RestrictionFilter) ([]*domain.Restriction, error)
}

// PmsClient интерфейс клиента PMS-адаптера
type PmsClient interface {
	ListRatePlanMappings(ctx context.Context, hotelID string) ([]pmsadapter.RatePlanMapping, error)
	PushRestrictions(ctx context.Context, hotelID string, records []pmsadapter.RestrictionRecord) (int, error)
}

// Gate интерфейс шлюза отправки в PMS
type Gate interface {
	Filter(cfg *domain.HotelRestrictionConfig, records []pmssyncModels.Record) *pmssyncModels.FilterResult
}

// Metrics интерфейс записи метрик
type Metrics interface {
	ObservePmsPush(pushed, dropped int)
	ObserveJobUnit(job, result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
