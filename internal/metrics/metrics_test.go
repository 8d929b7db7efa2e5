package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSave(t *testing.T) {
	m := New()
	m.ObserveSave(ResultSaved, 3)
	m.ObserveSave(ResultSaved, 2)
	m.ObserveSave(ResultRejected, 4)

	if got := testutil.ToFloat64(m.savedBookings); got != 5 {
		t.Errorf("bookings_saved_total = %v, want 5", got)
	}
	if got := testutil.ToFloat64(m.saves.WithLabelValues(ResultSaved)); got != 2 {
		t.Errorf("saved requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.saves.WithLabelValues(ResultRejected)); got != 1 {
		t.Errorf("rejected requests = %v, want 1", got)
	}
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	m := New()
	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/api/save", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}).Methods(http.MethodPost)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/save", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/api/save", http.MethodPost, "400")); got != 1 {
		t.Errorf("http_requests_total = %v, want 1", got)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "slotbook_http_requests_total") {
		t.Error("metrics output lacks slotbook_http_requests_total")
	}
}
