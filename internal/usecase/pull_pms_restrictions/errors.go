package pull_pms_restrictions

import "errors"

var (
	// ErrInvalidRestriction возвращается, если ограничение из PMS не удалось разобрать
	ErrInvalidRestriction = errors.New("pull_pms_restrictions: invalid restriction from PMS")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("pull_pms_restrictions: internal error")
)
