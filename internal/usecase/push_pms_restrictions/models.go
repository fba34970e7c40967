package push_pms_restrictions

import (
	"time"

	"github.com/m04kA/SMC-RestrictionService/pkg/jobrun"
)

// Request модель запроса отправки ограничений отеля в PMS
type Request struct {
	HotelID string    // ID отеля
	From    time.Time // Начало периода
	To      time.Time // Конец периода
}

// Response модель ответа
type Response struct {
	Considered int  // Записей до шлюза
	Pushed     int  // Отправлено
	Dropped    int  // Отброшено шлюзом
	Skipped    bool // Отель не подключён к PMS
}

// JobResponse результат задачи по всем отелям
type JobResponse struct {
	Report *jobrun.Report[string]
}
