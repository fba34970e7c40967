package merge_restrictions

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RestrictionService/internal/api/handlers"
	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions/models"
	applyRestrictions "github.com/m04kA/SMC-RestrictionService/internal/usecase/apply_restrictions"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidRestrictions = "некорректные ограничения"
	msgTooManyRestrictions = "слишком много ограничений в одном запросе"
)

// MergeRequest HTTP request model
type MergeRequest struct {
	Source       domain.Source             `json:"source,omitempty"`
	Restrictions []models.RestrictionInput `json:"restrictions"`
}

type Handler struct {
	useCase PreviewUseCase
	logger  Logger
}

func NewHandler(useCase PreviewUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/hotels/{hotelId}/restrictions/merge
// Ничего не сохраняет: возвращает строки, которые были бы созданы и удалены
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hotelID := mux.Vars(r)["hotelId"]

	var req MergeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /hotels/{id}/restrictions/merge - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Preview(r.Context(), &applyRestrictions.Request{
		HotelID:      hotelID,
		Source:       req.Source,
		Restrictions: req.Restrictions,
	})
	if err != nil {
		switch {
		case errors.Is(err, applyRestrictions.ErrInvalidInput):
			h.logger.Warn("POST /hotels/{id}/restrictions/merge - Invalid restrictions: hotel_id=%s, error=%v", hotelID, err)
			handlers.RespondBadRequest(w, msgInvalidRestrictions)

		case errors.Is(err, applyRestrictions.ErrTooManyRestrictions):
			handlers.RespondBadRequest(w, msgTooManyRestrictions)

		default:
			h.logger.Error("POST /hotels/{id}/restrictions/merge - Failed to merge: hotel_id=%s, error=%v", hotelID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
