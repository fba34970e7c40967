package upsert_automation_setting

import (
	"context"

	"github.com/m04kA/SMC-RestrictionService/internal/service/settings/models"
)

type SettingsService interface {
	UpsertAutomationSetting(ctx context.Context, req *models.AutomationSettingRequest) (*models.AutomationSettingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
