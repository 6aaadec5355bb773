package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/health", "/health"},
		{"/api/v1/accounts", "/api/v1/accounts"},
		{"/api/v1/accounts/01J5X9K2M3N4P5Q6R7S8T9V0W1", "/api/v1/accounts/:id"},
		{"/api/v1/accounts/01J5X9K2M3N4P5Q6R7S8T9V0W1/reset-password", "/api/v1/accounts/:id/reset-password"},
		{"/api/v1/transactions/01J5X9K2M3N4P5Q6R7S8T9V0W1", "/api/v1/transactions/:id"},
		{"/api/v1/shipping/labels", "/api/v1/shipping/labels"},
		{"/api/v1/shipping/labels/01J5X9K2M3N4P5Q6R7S8T9V0W1", "/api/v1/shipping/labels/:id"},
		{"/api/v1/batches/01J5X9K2M3N4P5Q6R7S8T9V0W1/shipments", "/api/v1/batches/:id/shipments"},
		{"/api/v1/credits/assign", "/api/v1/credits/assign"},
		{"/api/v1/reconciliation/u-1", "/api/v1/reconciliation/:id"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.expected)
		}
	}
}
