package middleware

import (
	c "evently-backend/context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetCorrelationIDHeaderGeneratesID(t *testing.T) {
	var seen string
	h := SetCorrelationIDHeader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = c.GetContextValue(r.Context(), c.ContextKeyCorrelationID)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, req.Header.Get("Correlation-Id"))
}

func TestSetCorrelationIDHeaderKeepsProvidedID(t *testing.T) {
	var seen string
	h := SetCorrelationIDHeader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = c.GetContextValue(r.Context(), c.ContextKeyCorrelationID)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Correlation-Id", "12345.67890")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "12345.67890", seen)
}
