package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-household/internal/platform/apperr"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveOperation_LabelsByKind(t *testing.T) {
	m := New()

	m.ObserveOperation("create", nil)
	m.ObserveOperation("create", apperr.ConflictError("Partner already married"))
	m.ObserveOperation("create", apperr.ConflictError("Partner already married"))
	m.ObserveOperation("remove", errors.New("boom"))

	assert.InDelta(t, 1, testutil.ToFloat64(m.operations.WithLabelValues("create", "ok")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.operations.WithLabelValues("create", "conflict")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.operations.WithLabelValues("remove", "internal")), 0)
}

func TestNilMetrics_IsNoop(t *testing.T) {
	var m *Metrics

	m.ObserveOperation("create", nil)
	m.TxFinished(time.Millisecond, nil)
	m.TxRetried()
	m.ObserveHTTP(http.MethodGet, "/persons", http.StatusOK, time.Millisecond)

	assert.Nil(t, m.Registry())
}

func TestHandler_ExposesInstruments(t *testing.T) {
	m := New()
	m.TxRetried()
	m.ObserveHTTP(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "pet_household_tx_retries_total 1")
	assert.Contains(t, body, `route="unmatched"`)
}
