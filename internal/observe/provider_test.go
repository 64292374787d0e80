package observe

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestInitProviderServesPrometheus(t *testing.T) {
	ctx := context.Background()

	p, err := InitProvider(ctx, ProviderConfig{ServiceVersion: "test"})
	if err != nil {
		t.Fatalf("InitProvider: %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(ctx) })

	m, err := NewMetrics(p.MeterProvider)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	m.RecordBlock(ctx, Block{Outcome: "voiced", Energy: 0.25, String: "E2", Plucked: true})

	rec := httptest.NewRecorder()
	p.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"tuner_blocks_total", "tuner_plucks_total", `string="E2"`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/metrics output lacks %q", want)
		}
	}
}

func TestInitProviderTwice(t *testing.T) {
	ctx := context.Background()
	for range 2 {
		p, err := InitProvider(ctx, ProviderConfig{})
		if err != nil {
			t.Fatalf("InitProvider: %v", err)
		}
		_ = p.Shutdown(ctx)
	}
}
