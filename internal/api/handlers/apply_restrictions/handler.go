package apply_restrictions

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RestrictionService/internal/api/handlers"
	applyRestrictions "github.com/m04kA/SMC-RestrictionService/internal/usecase/apply_restrictions"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidRestrictions = "некорректные ограничения"
	msgTooManyRestrictions = "слишком много ограничений в одном запросе"
)

type Handler struct {
	useCase ApplyRestrictionsUseCase
	logger  Logger
}

func NewHandler(useCase ApplyRestrictionsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/hotels/{hotelId}/restrictions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hotelID := mux.Vars(r)["hotelId"]

	var req ApplyRestrictionsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /hotels/{id}/restrictions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(hotelID))
	if err != nil {
		switch {
		case errors.Is(err, applyRestrictions.ErrInvalidInput):
			h.logger.Warn("POST /hotels/{id}/restrictions - Invalid restrictions: hotel_id=%s, error=%v", hotelID, err)
			handlers.RespondBadRequest(w, msgInvalidRestrictions)

		case errors.Is(err, applyRestrictions.ErrTooManyRestrictions):
			h.logger.Warn("POST /hotels/{id}/restrictions - Too many restrictions: hotel_id=%s, count=%d",
				hotelID, len(req.Restrictions))
			handlers.RespondBadRequest(w, msgTooManyRestrictions)

		default:
			h.logger.Error("POST /hotels/{id}/restrictions - Failed to apply restrictions: hotel_id=%s, error=%v",
				hotelID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /hotels/{id}/restrictions - Restrictions applied: hotel_id=%s, created=%d, removed=%d",
		hotelID, len(result.Created), result.Removed)
	handlers.RespondJSON(w, http.StatusOK, result)
}
