package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubRoutes struct{}

func (stubRoutes) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
}

func TestHealth(t *testing.T) {
	s := New(":0", nil, nil, WithCatalogSize(func() int { return 7 }))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if v := rec.Header().Get("X-ShopFind-Version"); v == "" {
		t.Error("missing X-ShopFind-Version header")
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["products"] != float64(7) {
		t.Errorf("products = %v, want 7", body["products"])
	}
}

func TestRegistrarRoutesMounted(t *testing.T) {
	s := New(":0", nil, []RouteRegistrar{stubRoutes{}})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Errorf("got %d %q, want 200 pong", rec.Code, rec.Body.String())
	}
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})

	withMetrics := New(":0", nil, nil, WithMetrics(metrics))
	rec := httptest.NewRecorder()
	withMetrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("with metrics: status = %d, want 200", rec.Code)
	}

	without := New(":0", nil, nil)
	rec = httptest.NewRecorder()
	without.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("without metrics: status = %d, want 404", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	s := New(":0", nil, []RouteRegistrar{stubRoutes{}}, WithRateLimit(1, 2))
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.limiter.now = func() time.Time { return fixed }

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("10.0.0.1:5000"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, code)
		}
	}
	if code := do("10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Errorf("over burst: status = %d, want 429", code)
	}
	if code := do("10.0.0.2:5000"); code != http.StatusOK {
		t.Errorf("other client: status = %d, want 200", code)
	}

	fixed = fixed.Add(time.Second)
	if code := do("10.0.0.1:5002"); code != http.StatusOK {
		t.Errorf("after refill: status = %d, want 200", code)
	}
}

func TestClientLimiterSweep(t *testing.T) {
	l := newClientLimiter(10, 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.allow("old")
	now = now.Add(limiterIdleTTL + time.Second)
	l.sweep(now)

	if _, ok := l.clients["old"]; ok {
		t.Error("idle client not swept")
	}
}
