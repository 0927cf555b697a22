package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ledwall-configurator/internal/audit"
	"ledwall-configurator/internal/auth"
	catalog "ledwall-configurator/internal/catalog/domain"
)

type stubStore struct {
	current   *catalog.Catalog
	reloadErr error
	reloads   int
}

func (s *stubStore) Current() *catalog.Catalog { return s.current }

func (s *stubStore) LoadedAt() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

func (s *stubStore) Reload(context.Context) error {
	s.reloads++
	return s.reloadErr
}

func TestListCatalog(t *testing.T) {
	h, err := NewHandler(&stubStore{current: catalog.Default()}, nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		LoadedAt   string                  `json:"loaded_at"`
		Processors []catalog.Processor     `json:"processors"`
		Cards      []catalog.ReceivingCard `json:"receiving_cards"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.LoadedAt != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected loaded_at %s", body.LoadedAt)
	}
	if len(body.Processors) != 21 || len(body.Cards) != 12 {
		t.Fatalf("expected 21 processors and 12 cards, got %d/%d", len(body.Processors), len(body.Cards))
	}
}

func TestListCatalogByEnvironment(t *testing.T) {
	h, _ := NewHandler(&stubStore{current: catalog.Default()}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog?environment=outdoor", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body catalog.Tables
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body.Pitches[catalog.EnvironmentIndoor]; ok {
		t.Fatalf("indoor pitches must be filtered out")
	}
	for _, b := range body.PowerBuckets {
		if b.Environment != catalog.EnvironmentOutdoor {
			t.Fatalf("unexpected bucket %+v", b)
		}
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/catalog?environment=space", nil)
	resp = httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestReloadCatalog(t *testing.T) {
	store := &stubStore{current: catalog.Default()}
	h, _ := NewHandler(store, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if store.reloads != 1 {
		t.Fatalf("expected one reload, got %d", store.reloads)
	}

	store.reloadErr = errors.New("bad file")
	resp = httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestCatalogRoutes(t *testing.T) {
	h, _ := NewHandler(&stubStore{}, nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without snapshot, got %d", resp.Code)
	}
	resp = httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/reload", nil))
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
	if _, err := NewHandler(nil, nil); err == nil {
		t.Fatalf("expected error for nil store")
	}
}

type recordingAudit struct {
	entries []audit.Entry
}

func (a *recordingAudit) Log(_ context.Context, entry audit.Entry) error {
	a.entries = append(a.entries, entry)
	return nil
}

func TestReloadCatalogRecordsAudit(t *testing.T) {
	store := &stubStore{current: catalog.Default()}
	recorder := &recordingAudit{}
	h, _ := NewHandler(store, recorder)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.RoleAdmin, "ops"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	store.reloadErr = errors.New("bad file")
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))

	if len(recorder.entries) != 2 {
		t.Fatalf("expected two audit entries, got %d", len(recorder.entries))
	}
	first := recorder.entries[0]
	if first.Action != audit.ActionCatalogReload || first.Actor != "ops" {
		t.Fatalf("unexpected entry %+v", first)
	}
	var meta map[string]int
	if err := json.Unmarshal(first.Metadata, &meta); err != nil || meta["processors"] != 21 {
		t.Fatalf("unexpected metadata %s (%v)", first.Metadata, err)
	}
	if !strings.Contains(string(recorder.entries[1].Metadata), "bad file") {
		t.Fatalf("failed reload must record the error, got %s", recorder.entries[1].Metadata)
	}
}
