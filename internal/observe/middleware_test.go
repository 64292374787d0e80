package observe

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestMiddlewareRecordsDuration(t *testing.T) {
	m, reader := newTestMetrics(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := Middleware(m, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/reading", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}

	met := findMetric(collect(t, reader), "tuner.http.request.duration")
	if met == nil {
		t.Fatal("tuner.http.request.duration not found")
	}
	hist := met.Data.(metricdata.Histogram[float64])
	if hist.DataPoints[0].Count != 1 {
		t.Fatalf("count = %d, want 1", hist.DataPoints[0].Count)
	}
}
