package run_los_automation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RestrictionService/internal/api/handlers"
	runLosAutomation "github.com/m04kA/SMC-RestrictionService/internal/usecase/run_los_automation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные параметры пересчёта"
)

type Handler struct {
	useCase RunLosAutomationUseCase
	logger  Logger
}

func NewHandler(useCase RunLosAutomationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/hotels/{hotelId}/los-automation/run
// Пустое тело означает все room products с включённой автоматизацией на окно по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hotelID := mux.Vars(r)["hotelId"]

	var req runLosAutomation.Request
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /hotels/{id}/los-automation/run - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}
	req.HotelID = hotelID

	result, err := h.useCase.Execute(r.Context(), &req)
	if err != nil {
		if errors.Is(err, runLosAutomation.ErrInvalidInput) {
			h.logger.Warn("POST /hotels/{id}/los-automation/run - Invalid input: hotel_id=%s, error=%v", hotelID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}

		h.logger.Error("POST /hotels/{id}/los-automation/run - Failed: hotel_id=%s, error=%v", hotelID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /hotels/{id}/los-automation/run - Done: hotel_id=%s, room_products=%d",
		hotelID, len(result.RoomProducts))
	handlers.RespondJSON(w, http.StatusOK, result)
}
