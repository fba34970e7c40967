package merge

import (
	"context"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
)

// RestrictionReader интерфейс чтения сохранённых ограничений
type RestrictionReader interface {
	Find(ctx context.Context, filter domain.RestrictionFilter) ([]*domain.Restriction, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
