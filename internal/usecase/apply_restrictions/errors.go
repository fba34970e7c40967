package apply_restrictions

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("apply_restrictions: invalid input data")

	// ErrTooManyRestrictions возвращается, если запрос превышает допустимый размер
	ErrTooManyRestrictions = errors.New("apply_restrictions: too many restrictions")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("apply_restrictions: internal error")
)
