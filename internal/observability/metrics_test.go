package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveRecompute(t *testing.T) {
	m := NewMetrics()

	m.ObserveRecompute("ok")
	m.ObserveRecompute("ok")
	m.ObserveRecompute("skipped")

	require.InDelta(t, 2, testutil.ToFloat64(m.recomputesTotal.WithLabelValues("ok")), 0.001)
	require.InDelta(t, 1, testutil.ToFloat64(m.recomputesTotal.WithLabelValues("skipped")), 0.001)
	require.Zero(t, testutil.ToFloat64(m.recomputesTotal.WithLabelValues("error")))
}

func TestMiddlewareZaehltRequests(t *testing.T) {
	m := NewMetrics()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/projekte", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.InDelta(t, 1, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/projekte", "201")), 0.001)
}

func TestNilMetricsSindSicher(t *testing.T) {
	var m *Metrics

	m.ObserveRecompute("ok")
	require.NotNil(t, m.Handler())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	require.NotNil(t, m.Middleware(next))
}
