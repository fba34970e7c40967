package pull_pms_restrictions

import (
	"time"

	"github.com/m04kA/SMC-RestrictionService/pkg/jobrun"
)

// Request модель запроса загрузки ограничений из PMS.
// Пустой период означает окно от сегодня на windowDays дней.
type Request struct {
	HotelIDs []string // Пусто = все подключённые отели
	From     time.Time
	To       time.Time
}

// Response модель ответа
type Response struct {
	Report  *jobrun.Report[string]
	Created int // Создано строк по всем отелям
}
