package derivedsetting

import "errors"

var (
	// ErrSettingNotFound возвращается, когда настройка производного тарифа не найдена
	ErrSettingNotFound = errors.New("derivedsetting.repository: setting not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("derivedsetting.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("derivedsetting.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("derivedsetting.repository: failed to scan row")
)
