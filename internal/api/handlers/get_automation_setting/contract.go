package get_automation_setting

import (
	"context"

	"github.com/m04kA/SMC-RestrictionService/internal/service/settings/models"
)

type SettingsService interface {
	GetAutomationSetting(ctx context.Context, hotelID string, roomProductID, ratePlanID *string) (*models.AutomationSettingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
