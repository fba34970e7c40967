package apply_restrictions

import (
	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions/models"
)

// Request модель запроса на применение ограничений
type Request struct {
	HotelID      string                    // ID отеля
	Source       domain.Source             // Источник операции, по умолчанию MANUAL
	Restrictions []models.RestrictionInput // Кандидаты
}

// Response модель ответа
type Response struct {
	Created        []models.RestrictionResponse `json:"created"`
	Removed        int                          `json:"removed"`
	DerivedCreated int                          `json:"derivedCreated"`
}

// PreviewResponse результат слияния без записи
type PreviewResponse struct {
	ToCreate []models.RestrictionResponse `json:"toCreate"`
	ToRemove []models.RestrictionResponse `json:"toRemove"`
}

// Options управляют побочными эффектами Apply
type Options struct {
	Propagate bool // Проецировать на производные тарифы
	PushToPms bool // Отправить эффективные ограничения в PMS
}

// Result результат Apply
type Result struct {
	Created        []*domain.Restriction
	Removed        int
	DerivedCreated int
}
