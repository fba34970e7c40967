package delete_restrictions_range

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RestrictionService/internal/api/handlers"
	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions"
	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPeriod      = "некорректный период или область"
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

// Handle POST /api/v1/hotels/{hotelId}/restrictions/delete-range
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hotelID := mux.Vars(r)["hotelId"]

	var req models.DeleteRangeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /hotels/{id}/restrictions/delete-range - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.HotelID = hotelID

	result, err := h.service.DeleteRestrictionsInRange(r.Context(), &req)
	if err != nil {
		if errors.Is(err, restrictions.ErrInvalidInput) {
			h.logger.Warn("POST /hotels/{id}/restrictions/delete-range - Invalid input: hotel_id=%s, error=%v", hotelID, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}

		h.logger.Error("POST /hotels/{id}/restrictions/delete-range - Failed: hotel_id=%s, error=%v", hotelID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /hotels/{id}/restrictions/delete-range - Done: hotel_id=%s, deleted=%d, recreated=%d",
		hotelID, result.Deleted, result.Recreated)
	handlers.RespondJSON(w, http.StatusOK, result)
}
