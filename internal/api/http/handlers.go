package apihttp

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"ledwall-configurator/internal/audit"
)

const (
	timeLayout   = time.RFC3339
	defaultLimit = 50
	maxLimit     = 500
)

// AuditReader lists recorded audit entries.
type AuditReader interface {
	Recent(ctx context.Context, action string, limit int) ([]audit.Entry, error)
}

// AuditHandler serves audit log queries.
type AuditHandler struct {
	reader AuditReader
}

// NewAuditHandler constructs an AuditHandler. A nil reader answers 503.
func NewAuditHandler(reader AuditReader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// ServeHTTP handles GET /api/v1/audit.
func (h *AuditHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.query(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"entries": rows})
}

// ExportAuditCSVHandler serves the audit log as CSV.
type ExportAuditCSVHandler struct {
	*AuditHandler
}

// NewExportAuditCSVHandler constructs an ExportAuditCSVHandler.
func NewExportAuditCSVHandler(reader AuditReader) *ExportAuditCSVHandler {
	return &ExportAuditCSVHandler{AuditHandler: NewAuditHandler(reader)}
}

// ServeHTTP handles GET /api/v1/exports/audit.csv.
func (h *ExportAuditCSVHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.query(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{
		"id",
		"created_at",
		"actor",
		"role",
		"action",
		"resource_type",
		"resource_id",
		"ip",
		"payload_digest",
	})
	for _, row := range rows {
		_ = writer.Write([]string{
			row.ID,
			row.CreatedAt,
			row.Actor,
			row.Role,
			row.Action,
			row.ResourceType,
			row.ResourceID,
			row.IP,
			row.PayloadDigest,
		})
	}
	writer.Flush()
}

type auditRow struct {
	ID            string          `json:"id"`
	CreatedAt     string          `json:"created_at"`
	Actor         string          `json:"actor"`
	Role          string          `json:"role"`
	Action        string          `json:"action"`
	ResourceType  string          `json:"resource_type"`
	ResourceID    string          `json:"resource_id"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	PayloadDigest string          `json:"payload_digest"`
	IP            string          `json:"ip"`
	UserAgent     string          `json:"user_agent"`
}

func (h *AuditHandler) query(w http.ResponseWriter, r *http.Request) ([]auditRow, bool) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return nil, false
	}
	if h == nil || h.reader == nil {
		http.Error(w, "audit log not configured", http.StatusServiceUnavailable)
		return nil, false
	}

	action, err := resolveAction(r.URL.Query().Get("action"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	entries, err := h.reader.Recent(r.Context(), action, limit)
	if err != nil {
		http.Error(w, "query audit log error", http.StatusInternalServerError)
		return nil, false
	}
	rows := make([]auditRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, auditRow{
			ID:            e.ID,
			CreatedAt:     formatTime(e.CreatedAt),
			Actor:         e.Actor,
			Role:          e.Role,
			Action:        e.Action,
			ResourceType:  e.ResourceType,
			ResourceID:    e.ResourceID,
			Metadata:      e.Metadata,
			PayloadDigest: e.PayloadDigest,
			IP:            e.IP,
			UserAgent:     e.UserAgent,
		})
	}
	return rows, true
}

func resolveAction(value string) (string, error) {
	switch value {
	case "", "export":
		return audit.ActionReportExport, nil
	case "reload":
		return audit.ActionCatalogReload, nil
	case audit.ActionReportExport, audit.ActionCatalogReload:
		return value, nil
	default:
		return "", errors.New("action must be export or reload")
	}
}

func parseLimit(value string) (int, error) {
	if value == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 || limit > maxLimit {
		return 0, errors.New("limit must be between 1 and " + strconv.Itoa(maxLimit))
	}
	return limit, nil
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(timeLayout)
}
