package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ledwall-configurator/internal/audit"
	catalog "ledwall-configurator/internal/catalog/domain"
)

const timeLayout = time.RFC3339

// Store is the catalog snapshot holder the handler serves from.
type Store interface {
	Current() *catalog.Catalog
	LoadedAt() time.Time
	Reload(ctx context.Context) error
}

// Handler provides catalog HTTP endpoints.
type Handler struct {
	store       Store
	auditLogger audit.Logger
}

// NewHandler constructs a handler. auditLogger may be nil.
func NewHandler(store Store, auditLogger audit.Logger) (*Handler, error) {
	if store == nil {
		return nil, errors.New("catalog handler: nil store")
	}
	return &Handler{store: store, auditLogger: auditLogger}, nil
}

type listResponse struct {
	LoadedAt string `json:"loaded_at"`
	catalog.Tables
}

type reloadResponse struct {
	LoadedAt   string `json:"loaded_at"`
	Processors int    `json:"processors"`
	Cards      int    `json:"receiving_cards"`
	Cabinets   int    `json:"cabinets"`
}

// ServeHTTP handles /api/v1/catalog and /api/v1/catalog/reload.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/catalog":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleList(w, r)
	case "/api/v1/catalog/reload":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleReload(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	c := h.store.Current()
	if c == nil {
		http.Error(w, "catalog not loaded", http.StatusServiceUnavailable)
		return
	}
	tables := c.Tables()
	if env := r.URL.Query().Get("environment"); env != "" {
		parsed, ok := catalog.ParseEnvironment(env)
		if !ok {
			http.Error(w, "unknown environment", http.StatusBadRequest)
			return
		}
		tables = filterEnvironment(tables, parsed)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listResponse{
		LoadedAt: h.store.LoadedAt().Format(timeLayout),
		Tables:   tables,
	})
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reload(r.Context()); err != nil {
		h.recordReload(r, map[string]string{"error": err.Error()})
		http.Error(w, "catalog reload failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	t := h.store.Current().Tables()
	h.recordReload(r, map[string]int{
		"processors":      len(t.Processors),
		"receiving_cards": len(t.Cards),
		"cabinets":        len(t.Cabinets),
	})
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reloadResponse{
		LoadedAt:   h.store.LoadedAt().Format(timeLayout),
		Processors: len(t.Processors),
		Cards:      len(t.Cards),
		Cabinets:   len(t.Cabinets),
	})
}

func filterEnvironment(t catalog.Tables, env catalog.Environment) catalog.Tables {
	buckets := t.PowerBuckets[:0:0]
	for _, b := range t.PowerBuckets {
		if b.Environment == env {
			buckets = append(buckets, b)
		}
	}
	t.PowerBuckets = buckets
	t.Pitches = map[catalog.Environment][]float64{env: t.Pitches[env]}
	return t
}

func (h *Handler) recordReload(r *http.Request, metadata any) {
	if h.auditLogger == nil {
		return
	}
	_ = h.auditLogger.Log(r.Context(), audit.FromRequest(r, audit.ActionCatalogReload, "catalog", "", metadata))
}
