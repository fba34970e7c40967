package delete_restriction

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RestrictionService/internal/api/handlers"
	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions"
)

const (
	msgNotFound     = "ограничение не найдено"
	msgInvalidInput = "некорректный запрос"
)

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

// Handle DELETE /api/v1/hotels/{hotelId}/restrictions/{restrictionId}
// Вместе с ограничением снимаются унаследованные поля производных тарифов
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	hotelID, restrictionID := vars["hotelId"], vars["restrictionId"]

	err := h.service.DeleteRestriction(r.Context(), hotelID, restrictionID)
	if err != nil {
		switch {
		case errors.Is(err, restrictions.ErrRestrictionNotFound):
			h.logger.Warn("DELETE /hotels/{id}/restrictions/{id} - Not found: hotel_id=%s, restriction_id=%s",
				hotelID, restrictionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, restrictions.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("DELETE /hotels/{id}/restrictions/{id} - Failed to delete: restriction_id=%s, error=%v",
				restrictionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /hotels/{id}/restrictions/{id} - Restriction deleted: hotel_id=%s, restriction_id=%s",
		hotelID, restrictionID)
	w.WriteHeader(http.StatusNoContent)
}
