package obs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ridoy-adhikary/towerCrane/internal/obs"
)

func TestHTTPMetricsLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("towercrane", []float64{1, 10}, registry)
	handler := obs.HTTPObs{Metrics: metrics}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	req = req.WithContext(obs.WithRoutePattern(req.Context(), "/health/ready"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rr.Code)
	}

	total := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/health/ready", "204"))
	if total != 1 {
		t.Fatalf("expected counter to be 1, got %v", total)
	}

	samples := testutil.CollectAndCount(metrics.ReqDur)
	if samples == 0 {
		t.Fatalf("expected histogram sample")
	}

	if metrics.InFlight != nil {
		if val := testutil.ToFloat64(metrics.InFlight); val != 0 {
			t.Fatalf("expected no in-flight requests, got %v", val)
		}
	}
}

func TestDomainMetricsRegisterOnce(t *testing.T) {
	registry := prometheus.NewRegistry()
	obs.MustRegisterDomainMetrics("towercrane", registry)
	obs.MustRegisterDomainMetrics("towercrane", registry)

	obs.ObserveCartMutation("add", nil)
	obs.ObserveCartMutation("add", http.ErrBodyNotAllowed)
	obs.ObserveCartItemsAdded(3)

	ok := testutil.ToFloat64(obs.CartMutationsTotal.WithLabelValues("add", "ok"))
	if ok != 1 {
		t.Fatalf("expected ok counter 1, got %v", ok)
	}
	failed := testutil.ToFloat64(obs.CartMutationsTotal.WithLabelValues("add", "error"))
	if failed != 1 {
		t.Fatalf("expected error counter 1, got %v", failed)
	}
	if added := testutil.ToFloat64(obs.CartItemsAdded); added != 3 {
		t.Fatalf("expected 3 items added, got %v", added)
	}
}
