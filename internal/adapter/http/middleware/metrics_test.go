package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{
			name:       "normalizes asset path",
			method:     http.MethodGet,
			path:       "/api/v1/assets/22222222-2222-4222-8222-222222222222",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "keeps non-matching path as-is",
			method:     http.MethodPost,
			path:       "/health",
			statusCode: http.StatusCreated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			httpRequestsTotal.Reset()
			httpRequestDuration.Reset()
			httpRequestsInFlight.Set(0)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			Metrics(next).ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			normalized := normalizePath(tc.path)
			counter := httpRequestsTotal.WithLabelValues(tc.method, normalized, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected request counter to be 1, got %v", got)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
	}{
		{"/api/v1/accounts/abc", "/api/v1/accounts/:id"},
		{"/api/v1/assets/abc/price", "/api/v1/assets/:id/price"},
		{"/api/v1/assets/abc/history", "/api/v1/assets/:id/history"},
		{"/api/v1/transactions/import", "/api/v1/transactions/:id"},
		{"/api/v1/accounts", "/api/v1/accounts"},
		{"/api/v1/accounts/", "/api/v1/accounts/"},
		{"/metrics", "/metrics"},
	}

	for _, tc := range testCases {
		if got := normalizePath(tc.path); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, expected %q", tc.path, got, tc.expected)
		}
	}
}
