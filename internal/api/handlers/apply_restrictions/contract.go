package apply_restrictions

import (
	"context"

	applyRestrictions "github.com/m04kA/SMC-RestrictionService/internal/usecase/apply_restrictions"
)

type ApplyRestrictionsUseCase interface {
	Execute(ctx context.Context, req *applyRestrictions.Request) (*applyRestrictions.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
