package get_restriction

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RestrictionService/internal/api/handlers"
	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions"
)

const msgNotFound = "ограничение не найдено"

type Handler struct {
	service RestrictionService
	logger  Logger
}

func NewHandler(service RestrictionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/hotels/{hotelId}/restrictions/{restrictionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	hotelID, restrictionID := vars["hotelId"], vars["restrictionId"]

	result, err := h.service.GetByID(r.Context(), hotelID, restrictionID)
	if err != nil {
		if errors.Is(err, restrictions.ErrRestrictionNotFound) {
			h.logger.Warn("GET /hotels/{id}/restrictions/{id} - Not found: hotel_id=%s, restriction_id=%s",
				hotelID, restrictionID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("GET /hotels/{id}/restrictions/{id} - Failed to get restriction: restriction_id=%s, error=%v",
			restrictionID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
