package push_pms_restrictions

import "errors"

var (
	// ErrHotelNotFound возвращается, когда настройки отеля не найдены
	ErrHotelNotFound = errors.New("push_pms_restrictions: hotel not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("push_pms_restrictions: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("push_pms_restrictions: internal error")
)
