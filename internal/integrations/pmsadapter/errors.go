package pmsadapter

import "errors"

var (
	// ErrHotelNotConnected возвращается, когда у отеля нет подключенной PMS
	ErrHotelNotConnected = errors.New("pmsadapter client: hotel is not connected to a PMS")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("pmsadapter client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("pmsadapter client: invalid response")
)
