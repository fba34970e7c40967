package derived

import (
	"context"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
)

// RestrictionReader интерфейс чтения сохранённых ограничений
type RestrictionReader interface {
	Find(ctx context.Context, filter domain.RestrictionFilter) ([]*domain.Restriction, error)
}

// SettingsReader интерфейс чтения настроек производных тарифов
type SettingsReader interface {
	FindFollowingByParents(ctx context.Context, hotelID string, parentRatePlanIDs []string) ([]*domain.RatePlanDerivedSetting, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
