package hotelconfig

import "errors"

var (
	// ErrHotelNotFound возвращается, когда настройки отеля не найдены
	ErrHotelNotFound = errors.New("hotelconfig.repository: hotel not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("hotelconfig.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("hotelconfig.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("hotelconfig.repository: failed to scan row")
)
