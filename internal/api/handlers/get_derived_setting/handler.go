package get_derived_setting

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RestrictionService/internal/api/handlers"
	"github.com/m04kA/SMC-RestrictionService/internal/service/settings"
)

const msgNotFound = "настройка производного тарифа не найдена"

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/hotels/{hotelId}/rate-plans/{ratePlanId}/derived-setting
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	hotelID, ratePlanID := vars["hotelId"], vars["ratePlanId"]

	result, err := h.service.GetDerivedSetting(r.Context(), hotelID, ratePlanID)
	if err != nil {
		if errors.Is(err, settings.ErrSettingNotFound) {
			h.logger.Info("GET /hotels/{id}/rate-plans/{id}/derived-setting - Not found: hotel_id=%s, rate_plan_id=%s",
				hotelID, ratePlanID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("GET /hotels/{id}/rate-plans/{id}/derived-setting - Failed: hotel_id=%s, error=%v", hotelID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
