package upsert_derived_setting

import (
	"context"

	"github.com/m04kA/SMC-RestrictionService/internal/service/settings/models"
)

type SettingsService interface {
	UpsertDerivedSetting(ctx context.Context, req *models.DerivedSettingRequest) (*models.DerivedSettingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
