package run_los_automation

import (
	"context"

	runLosAutomation "github.com/m04kA/SMC-RestrictionService/internal/usecase/run_los_automation"
)

type RunLosAutomationUseCase interface {
	Execute(ctx context.Context, req *runLosAutomation.Request) (*runLosAutomation.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
