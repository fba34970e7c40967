package upsert_derived_setting

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RestrictionService/internal/api/handlers"
	"github.com/m04kA/SMC-RestrictionService/internal/service/settings"
	"github.com/m04kA/SMC-RestrictionService/internal/service/settings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные настройки"
)

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

// Handle PUT /api/v1/hotels/{hotelId}/rate-plans/{ratePlanId}/derived-setting
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req models.DerivedSettingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /hotels/{id}/rate-plans/{id}/derived-setting - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.HotelID = vars["hotelId"]
	req.DerivedRatePlanID = vars["ratePlanId"]

	result, err := h.service.UpsertDerivedSetting(r.Context(), &req)
	if err != nil {
		if errors.Is(err, settings.ErrInvalidInput) {
			h.logger.Warn("PUT /hotels/{id}/rate-plans/{id}/derived-setting - Invalid data: hotel_id=%s, error=%v",
				req.HotelID, err)
			handlers.RespondBadRequest(w, msgInvalidData)
			return
		}

		h.logger.Error("PUT /hotels/{id}/rate-plans/{id}/derived-setting - Failed to save: hotel_id=%s, rate_plan_id=%s, error=%v",
			req.HotelID, req.DerivedRatePlanID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /hotels/{id}/rate-plans/{id}/derived-setting - Saved: hotel_id=%s, derived=%s, parent=%s",
		result.HotelID, result.DerivedRatePlanID, result.ParentRatePlanID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
