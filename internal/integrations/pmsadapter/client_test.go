package pmsadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RestrictionService/pkg/logger"
)

func TestClient_PushRestrictions(t *testing.T) {
	var received PushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/hotels/h1/restrictions/push", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(PushResponse{Accepted: len(received.Records)})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logger.Nop())
	minLength := 2

	accepted, err := client.PushRestrictions(context.Background(), "h1", []RestrictionRecord{
		{RoomProductID: "rp1", RatePlanID: "p1", Date: "2025-06-01", Type: "ClosedToArrival", MinLength: &minLength},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, accepted)
	require.Len(t, received.Records, 1)
	assert.Equal(t, 2, *received.Records[0].MinLength)
}

func TestClient_PushRestrictions_Empty(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", time.Second, logger.Nop())

	accepted, err := client.PushRestrictions(context.Background(), "h1", nil)
	require.NoError(t, err)
	assert.Zero(t, accepted)
}

func TestClient_PullRestrictions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-06-01", r.URL.Query().Get("from"))
		assert.Equal(t, "2025-06-30", r.URL.Query().Get("to"))
		_ = json.NewEncoder(w).Encode(PullResponse{Restrictions: []PulledRestriction{
			{RatePlanIDs: []string{"p1"}, FromDate: "2025-06-01", ToDate: "2025-06-03", Type: "ClosedToStay"},
		}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logger.Nop())
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	pulled, err := client.PullRestrictions(context.Background(), "h1", from, from.AddDate(0, 0, 29))
	require.NoError(t, err)
	require.Len(t, pulled, 1)
	assert.Equal(t, "ClosedToStay", pulled[0].Type)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "not connected", status: http.StatusNotFound, wantErr: ErrHotelNotConnected},
		{name: "server error", status: http.StatusBadGateway, wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(ErrorResponse{Code: tt.status, Message: "boom"})
			}))
			defer srv.Close()

			client := NewClient(srv.URL, time.Second, logger.Nop())
			_, err := client.ListRatePlanMappings(context.Background(), "h1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
