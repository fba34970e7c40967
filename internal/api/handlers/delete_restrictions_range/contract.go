package delete_restrictions_range

import (
	"context"

	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions/models"
)

type RestrictionService interface {
	DeleteRestrictionsInRange(ctx context.Context, req *models.DeleteRangeRequest) (*models.DeleteRangeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
