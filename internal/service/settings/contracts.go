package settings

import (
	"context"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
)

// DerivedSettingRepository интерфейс репозитория настроек производных тарифов
type DerivedSettingRepository interface {
	GetByDerived(ctx context.Context, hotelID, derivedRatePlanID string) (*domain.RatePlanDerivedSetting, error)
	Upsert(ctx context.Context, setting *domain.RatePlanDerivedSetting) (*domain.RatePlanDerivedSetting, error)
}

// AutomationSettingRepository интерфейс репозитория настроек LOS-автоматизации
type AutomationSettingRepository interface {
	GetWithHierarchy(ctx context.Context, hotelID string, roomProductID, ratePlanID *string) (*domain.RestrictionAutomationSetting, error)
	Upsert(ctx context.Context, setting *domain.RestrictionAutomationSetting) (*domain.RestrictionAutomationSetting, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
