package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dine24/dine24-api/pkg/logger"
)

func TestHealthHandler(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name           string
		checks         map[string]Check
		expectedStatus int
		expectedHealth string
		expectedChecks map[string]string
	}{
		{
			name:           "no dependencies",
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
		},
		{
			name:           "all dependencies up",
			checks:         map[string]Check{"database": ok, "redis": ok},
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
			expectedChecks: map[string]string{"database": "ok", "redis": "ok"},
		},
		{
			name:           "redis down",
			checks:         map[string]Check{"database": ok, "redis": down},
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "degraded",
			expectedChecks: map[string]string{"database": "ok", "redis": "unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(logger.New("error"), tt.checks)
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.expectedHealth {
				t.Errorf("expected status %q, got %q", tt.expectedHealth, resp.Status)
			}
			for name, want := range tt.expectedChecks {
				if got := resp.Checks[name]; got != want {
					t.Errorf("check %s: expected %q, got %q", name, want, got)
				}
			}
		})
	}
}
