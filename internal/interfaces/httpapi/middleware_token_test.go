package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequirePipelineToken_AllowsMatchingToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequirePipelineToken("secret-token", next)

	req := httptest.NewRequest(http.MethodPost, "/v1/pipeline/sync/upcoming", nil)
	req.Header.Set("X-Pipeline-Token", "secret-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRequirePipelineToken_RejectsWrongToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequirePipelineToken("secret-token", next)

	req := httptest.NewRequest(http.MethodPost, "/v1/pipeline/sync/upcoming", nil)
	req.Header.Set("X-Pipeline-Token", "wrong")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequirePipelineToken_UnconfiguredTokenDisablesRoutes(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequirePipelineToken("", next)

	req := httptest.NewRequest(http.MethodPost, "/v1/pipeline/sync/upcoming", nil)
	req.Header.Set("X-Pipeline-Token", "anything")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}
