package get_calendar

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RestrictionService/internal/api/handlers"
	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions"
	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions/models"
)

const (
	msgInvalidParams = "некорректные параметры запроса, ожидается from и to в формате YYYY-MM-DD"
	msgRangeTooLarge = "слишком большой период"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/hotels/{hotelId}/calendar
// Query params: from, to (обязательно), policy=guest|pms, roomProductId, ratePlanId
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hotelID := mux.Vars(r)["hotelId"]
	query := r.URL.Query()

	req := &models.CalendarRequest{
		HotelID:       hotelID,
		From:          query.Get("from"),
		To:            query.Get("to"),
		Policy:        query.Get("policy"),
		RoomProductID: query.Get("roomProductId"),
		RatePlanID:    query.Get("ratePlanId"),
	}

	result, err := h.service.GetEffectiveCalendar(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, restrictions.ErrRangeTooLarge):
			h.logger.Warn("GET /hotels/{id}/calendar - Range too large: hotel_id=%s, from=%s, to=%s", hotelID, req.From, req.To)
			handlers.RespondBadRequest(w, msgRangeTooLarge)

		case errors.Is(err, restrictions.ErrInvalidInput):
			h.logger.Warn("GET /hotels/{id}/calendar - Invalid parameters: hotel_id=%s, error=%v", hotelID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /hotels/{id}/calendar - Failed to build calendar: hotel_id=%s, error=%v", hotelID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
