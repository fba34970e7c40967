package models

import (
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
)

// Input данные для расчёта LOS одного room product
type Input struct {
	HotelID       string
	RoomProductID string
	From          time.Time
	To            time.Time
	Settings      domain.AutomationSettings

	// Юниты, назначенные room product, со статусами по датам
	Units []*domain.RoomUnitAvailability

	// Сохранённые ограничения отеля за окно: источник блокировок CTS
	// и ручных минимумов для room product
	Restrictions []*domain.Restriction
}

// Output рассчитанные ограничения и статистика
type Output struct {
	Restrictions     []*domain.Restriction
	DatesTotal       int
	DatesUnavailable int // даты без доступных юнитов
}
