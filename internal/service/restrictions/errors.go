package restrictions

import "errors"

var (
	// ErrRestrictionNotFound возвращается, когда ограничение не найдено
	ErrRestrictionNotFound = errors.New("restriction not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input")

	// ErrRangeTooLarge возвращается, если период календаря превышает допустимый
	ErrRangeTooLarge = errors.New("date range too large")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("internal error")
)
