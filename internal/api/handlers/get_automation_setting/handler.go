package get_automation_setting

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RestrictionService/internal/api/handlers"
	"github.com/m04kA/SMC-RestrictionService/internal/service/settings"
)

const (
	msgNotFound     = "настройка автоматизации не найдена"
	msgInvalidScope = "нужен roomProductId и/или ratePlanId"
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

// Handle GET /api/v1/hotels/{hotelId}/automation-settings
// Query params: roomProductId, ratePlanId (хотя бы один). Поиск по иерархии:
// пара, затем тариф, затем room product
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hotelID := mux.Vars(r)["hotelId"]
	roomProductID := optionalParam(r, "roomProductId")
	ratePlanID := optionalParam(r, "ratePlanId")

	result, err := h.service.GetAutomationSetting(r.Context(), hotelID, roomProductID, ratePlanID)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrSettingNotFound):
			h.logger.Info("GET /hotels/{id}/automation-settings - Not found: hotel_id=%s", hotelID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, settings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidScope)

		default:
			h.logger.Error("GET /hotels/{id}/automation-settings - Failed: hotel_id=%s, error=%v", hotelID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func optionalParam(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}
