package get_restriction

import (
	"context"

	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions/models"
)

type RestrictionService interface {
	GetByID(ctx context.Context, hotelID, id string) (*models.RestrictionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
