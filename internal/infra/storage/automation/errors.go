package automation

import "errors"

var (
	// ErrSettingNotFound возвращается, когда настройка автоматизации не найдена
	ErrSettingNotFound = errors.New("automation.repository: setting not found")

	// ErrInvalidScope возвращается, когда не указан ни room product, ни rate plan
	ErrInvalidScope = errors.New("automation.repository: room product or rate plan is required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("automation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("automation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("automation.repository: failed to scan row")
)
