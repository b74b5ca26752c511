package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.UserRegistered("brand")
		m.LoginAttempt(true)
		m.MessageSent()
		m.CampaignCreated()
		m.CampaignClosed()
		m.CollaborationProposed()
		m.CollaborationPaid()
		m.CreatorFirstPaid()
		m.StoreReset()
	})
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.UserRegistered("creator")
	m.UserRegistered("creator")
	m.LoginAttempt(false)
	m.CollaborationPaid()
	m.CreatorFirstPaid()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.registrations.WithLabelValues("creator")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.logins.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.collaborations.WithLabelValues("paid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.firstPaid))
}

func TestInstrumentUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/users/{id}", "404")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), `collabhub_http_requests_total{method="GET",route="/api/users/{id}",status="404"} 2`))
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
