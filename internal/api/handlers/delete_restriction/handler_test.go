package delete_restriction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-RestrictionService/internal/service/restrictions"
	"github.com/m04kA/SMC-RestrictionService/pkg/logger"
)

type fakeService struct{ err error }

func (f fakeService) DeleteRestriction(context.Context, string, string) error { return f.err }

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "deleted", status: http.StatusNoContent},
		{name: "not found", err: restrictions.ErrRestrictionNotFound, status: http.StatusNotFound},
		{name: "internal", err: restrictions.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/hotels/h1/restrictions/r1", nil)
			req = mux.SetURLVars(req, map[string]string{"hotelId": "h1", "restrictionId": "r1"})
			rec := httptest.NewRecorder()

			NewHandler(fakeService{err: tt.err}, logger.Nop()).Handle(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
