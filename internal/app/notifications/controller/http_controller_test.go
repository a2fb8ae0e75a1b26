package controller_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marcelotrevisani/roboto/internal/app/notifications/controller"
	"github.com/marcelotrevisani/roboto/internal/app/notifications/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	sweepErr  error
	swept     bool
	status    service.Status
	statusErr error
}

func (m *mockService) Sweep(ctx context.Context) error {
	m.swept = true
	return m.sweepErr
}

func (m *mockService) GetStatus(ctx context.Context) (service.Status, error) {
	return m.status, m.statusErr
}

func TestSweepHandler(t *testing.T) {
	testCases := []struct {
		name           string
		method         string
		sweepErr       error
		expectedStatus int
		expectedSwept  bool
	}{
		{
			name:           "successful sweep",
			method:         http.MethodPost,
			expectedStatus: http.StatusOK,
			expectedSwept:  true,
		},
		{
			name:           "sweep error",
			method:         http.MethodPost,
			sweepErr:       errors.New("github unavailable"),
			expectedStatus: http.StatusInternalServerError,
			expectedSwept:  true,
		},
		{
			name:           "method not allowed",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
			expectedSwept:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockService{sweepErr: tc.sweepErr}
			endpoints := controller.New(mock)

			req := httptest.NewRequest(tc.method, "/v1/notifications/sweep", nil)
			rec := httptest.NewRecorder()

			endpoints.SweepHandler(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.Equal(t, tc.expectedSwept, mock.swept)
		})
	}
}

func TestStatusHandler(t *testing.T) {
	lastSweep := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	mock := &mockService{
		status: service.Status{
			LastSweep:      lastSweep,
			CheckInterval:  4 * time.Minute,
			ProcessedCount: 3,
		},
	}
	endpoints := controller.New(mock)

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	rec := httptest.NewRecorder()

	endpoints.StatusHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got service.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(3), got.ProcessedCount)
	assert.True(t, got.LastSweep.Equal(lastSweep))
}

func TestStatusHandlerError(t *testing.T) {
	endpoints := controller.New(&mockService{statusErr: errors.New("repository unavailable")})

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	rec := httptest.NewRecorder()

	endpoints.StatusHandler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
