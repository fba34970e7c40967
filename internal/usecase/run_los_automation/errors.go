package run_los_automation

import "errors"

var (
	// ErrInvalidInput возвращается при невалидных входных данных
	ErrInvalidInput = errors.New("run_los_automation: invalid input")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("run_los_automation: internal error")
)
