package apply_restrictions

import (
	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions/models"
	applyRestrictions "github.com/m04kA/SMC-RestrictionService/internal/usecase/apply_restrictions"
)

// ApplyRestrictionsRequest HTTP request model
type ApplyRestrictionsRequest struct {
	Source       domain.Source             `json:"source,omitempty"` // по умолчанию MANUAL
	Restrictions []models.RestrictionInput `json:"restrictions"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ApplyRestrictionsRequest) ToUseCaseRequest(hotelID string) *applyRestrictions.Request {
	return &applyRestrictions.Request{
		HotelID:      hotelID,
		Source:       r.Source,
		Restrictions: r.Restrictions,
	}
}
