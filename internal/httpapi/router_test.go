package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KrolPaul/call-center/internal/cdr"
	"github.com/KrolPaul/call-center/internal/clock"
	"github.com/KrolPaul/call-center/internal/dispatcher"
	"github.com/KrolPaul/call-center/internal/operator"
	"github.com/KrolPaul/call-center/internal/queue"
	"github.com/KrolPaul/call-center/internal/randgen"
)

func newTestRouter(t *testing.T) (http.Handler, *dispatcher.Dispatcher, *clock.Fake) {
	t.Helper()
	q := queue.New[cdr.CDR, string](2, true)
	pool := operator.New(1)
	fc := clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	d := dispatcher.New(dispatcher.Config{
		MinResponseTime: time.Second, MaxResponseTime: 5 * time.Second,
		MinCallDuration: 2 * time.Second, MaxCallDuration: 2 * time.Second,
		NOperators: 1, MaxQueueSize: 2, RejectRepeated: true,
	}, q, pool, fc, randgen.NewSeeded(7), cdr.SinkFunc(func(cdr.CDR) {}))
	return NewRouter(d, fc, fc.Now()), d, fc
}

func TestCallEndpoint_MissingPhoneNumber(t *testing.T) {
	router, _, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/call", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallEndpoint_AdmitsCall(t *testing.T) {
	router, _, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/call?phone_number=%2B15550100", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body callResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.CallStatus)
	assert.NotZero(t, body.CallID)
}

func TestCallEndpoint_OverloadOnFullQueue(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, phone := range []string{"A", "B"} {
		req := httptest.NewRequest(http.MethodGet, "/call?phone_number="+phone, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/call?phone_number=C", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body callResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "overload", body.CallStatus)
}

func TestHealthLiveness_AlwaysHealthy(t *testing.T) {
	router, _, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthReadiness_UnhealthyUntilFirstTick(t *testing.T) {
	router, d, fc := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	d.Step(fc.Now())
	// Step does not flip readiness (that is Run's job); readiness only
	// tracks whether the scheduler goroutine itself has executed.
	assert.False(t, d.Ready())
}

func TestMetricsEndpoint_Serves(t *testing.T) {
	router, _, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
