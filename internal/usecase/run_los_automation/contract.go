package run_los_automation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	losModels "github.com/m04kA/SMC-RestrictionService/internal/service/losautomation/models"
	"github.com/m04kA/SMC-RestrictionService/internal/usecase/apply_restrictions"
)

// AutomationSettingRepository интерфейс настроек автоматизации
type AutomationSettingRepository interface {
	ListEnabledRoomProducts(ctx context.Context, hotelID string, roomProductIDs []string) ([]*domain.RestrictionAutomationSetting, error)
	ListHotelsWithEnabled(ctx context.Context) ([]string, error)
}

// RoomUnitRepository интерфейс доступности юнитов
type RoomUnitRepository interface {
	ListAvailability(ctx context.Context, hotelID, roomProductID string, from, to time.Time) ([]*domain.RoomUnitAvailability, error)
}

// HotelConfigProvider интерфейс настроек отеля
type HotelConfigProvider interface {
	Get(ctx context.Context, hotelID string) (*domain.HotelRestrictionConfig, error)
}

// RestrictionReader интерфейс чтения сохранённых ограничений
type RestrictionReader interface {
	Find(ctx context.Context, filter domain.RestrictionFilter) ([]*domain.Restriction, error)
}

// Locker интерфейс advisory-блокировки
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Calculator интерфейс расчёта LOS
type Calculator interface {
	Compute(in *losModels.Input) *losModels.Output
}

// Applier интерфейс применения ограничений
type Applier interface {
	Apply(ctx context.Context, hotelID string, candidates []*domain.Restriction, source domain.Source, opts apply_restrictions.Options) (*apply_restrictions.Result, error)
}

// Metrics интерфейс записи метрик
type Metrics interface {
	ObserveLosAutomation(result string)
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
