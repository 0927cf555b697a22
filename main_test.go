package main

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ledwall-configurator/internal/auth"
	catalogapp "ledwall-configurator/internal/catalog/application"
	sizingapp "ledwall-configurator/internal/sizing/application"
)

const calcBody = `{
  "screen": {"width_mm": 1920, "height_mm": 1080, "environment": "indoor", "pitch_mm": 2.5, "mounting": "monolithic"},
  "components": {"processor_id": "vx600-pro", "card_id": "a8s", "modules_per_card": 12, "modules_per_psu": 8,
    "psu_watts": 300, "phase": "single_220", "power_reserve_pct": 20, "reserve": {"mode": "count", "module_count": 4}}
}`

func newTestRouter(t *testing.T, secret string) (http.Handler, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)
	store := catalogapp.NewStaticStore(nil)
	svc, err := sizingapp.NewService(store, sizingapp.WithLogger(logger))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	router, err := newRouter(svc, store, nil, secret, logger)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	return router, &logs
}

func TestRouterHealthzAndRequestID(t *testing.T) {
	router, logs := newTestRouter(t, "")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || resp.Body.String() != "ok" {
		t.Fatalf("expected ok, got %d %q", resp.Code, resp.Body.String())
	}
	id := resp.Header().Get(requestIDHeader)
	if len(id) != 36 {
		t.Fatalf("expected generated request id, got %q", id)
	}
	if !strings.Contains(logs.String(), "http GET /healthz 200") || !strings.Contains(logs.String(), "id="+id) {
		t.Fatalf("expected access log with request id, got %q", logs.String())
	}

	const given = "0f8fad5b-d9cb-469f-a165-70867728950e"
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, given)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Header().Get(requestIDHeader) != given {
		t.Fatalf("expected request id to be echoed")
	}
}

func TestRouterCalculate(t *testing.T) {
	router, _ := newTestRouter(t, "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sizing/calculate", strings.NewReader(calcBody))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	// 1920x1080 -> 6x7 grid, 42 modules.
	if !strings.Contains(resp.Body.String(), `"module_count":42`) {
		t.Fatalf("expected 42 modules in %s", resp.Body.String())
	}
}

func TestRouterAuth(t *testing.T) {
	const secret = "router-secret"
	router, _ := newTestRouter(t, secret)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	viewer, err := auth.IssueJWT([]byte(secret), "u1", auth.RoleViewer, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	req.Header.Set("Authorization", "Bearer "+viewer)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil)
	req.Header.Set("Authorization", "Bearer "+viewer)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected exempt healthz, got %d", resp.Code)
	}
}

func TestRouterAuditWithoutDatabase(t *testing.T) {
	router, _ := newTestRouter(t, "")
	for _, path := range []string{"/api/v1/audit", "/api/v1/exports/audit.csv"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503 without audit store, got %d", path, resp.Code)
		}
	}
}
