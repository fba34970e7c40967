package pull_pms_restrictions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/integrations/pmsadapter"
	"github.com/m04kA/SMC-RestrictionService/internal/usecase/apply_restrictions"
)

// HotelLister интерфейс списка отелей, подключённых к PMS
type HotelLister interface {
	ListPmsEnabledHotels(ctx context.Context) ([]string, error)
}

// PmsClient интерфейс клиента PMS-адаптера
type PmsClient interface {
	PullRestrictions(ctx context.Context, hotelID string, from, to time.Time) ([]pmsadapter.PulledRestriction, error)
}

// Applier интерфейс применения ограничений
type Applier interface {
	Apply(ctx context.Context, hotelID string, candidates []*domain.Restriction, source domain.Source, opts apply_restrictions.Options) (*apply_restrictions.Result, error)
}

// Metrics интерфейс записи метрик
type Metrics interface {
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
