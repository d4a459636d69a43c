package router

import (
	"context"
	"evently-backend/boxoffice"
	"evently-backend/factory"
	"evently-backend/model"
	"evently-backend/notify"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	kinds    []string
	payloads []interface{}
}

func (e *recordingEmitter) Emit(ctx context.Context, kind string, payload interface{}) {
	e.kinds = append(e.kinds, kind)
	e.payloads = append(e.payloads, payload)
}

func newTestRouter(emitter notify.Emitter) *mux.Router {
	service := boxoffice.New("admin-uid", nil, notify.NewLog())
	return newRouter(service, nil, factory.NewFactory(), emitter)
}

func TestUnknownPathEmitsUnmatchedCall(t *testing.T) {
	emitter := &recordingEmitter{}
	r := newTestRouter(emitter)

	req := httptest.NewRequest(http.MethodPost, "/v1/nope", strings.NewReader(`{"data":{"auth":{"token_id":"abc"}}}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, []string{model.KindUnmatchedCall}, emitter.kinds)

	call, ok := emitter.payloads[0].(model.UnmatchedCall)
	require.True(t, ok)
	assert.Equal(t, "abc", call.Caller)
	assert.Contains(t, call.Payload, "POST /v1/nope")
}

func TestWrongMethodEmitsUnmatchedCall(t *testing.T) {
	emitter := &recordingEmitter{}
	r := newTestRouter(emitter)

	// PUT matches no method on a known path; it must still reach the
	// unmatched-call logger.
	req := httptest.NewRequest(http.MethodPut, "/v1/events", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, []string{model.KindUnmatchedCall}, emitter.kinds)
}

func TestKnownRouteDoesNotEmitUnmatchedCall(t *testing.T) {
	emitter := &recordingEmitter{}
	r := newTestRouter(emitter)

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, emitter.kinds)
}
