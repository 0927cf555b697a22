package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ledwall-configurator/internal/audit"
	catalog "ledwall-configurator/internal/catalog/domain"
	"ledwall-configurator/internal/sizing/application"
	sizing "ledwall-configurator/internal/sizing/domain"
)

const maxBodyBytes = 1 << 20

// Handler provides sizing HTTP endpoints.
type Handler struct {
	service     *application.Service
	auditLogger audit.Logger
}

// NewHandler constructs a handler. auditLogger may be nil.
func NewHandler(service *application.Service, auditLogger audit.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("sizing handler: nil service")
	}
	return &Handler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP handles /api/v1/sizing/calculate and /api/v1/sizing/export.{format}.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/sizing/calculate":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleCalculate(w, r)
		return
	case strings.HasPrefix(r.URL.Path, "/api/v1/sizing/export."):
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleExport(w, r, strings.TrimPrefix(r.URL.Path, "/api/v1/sizing/export."))
		return
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(w, r)
	if err != nil {
		respondError(w, err)
		return
	}
	report, err := h.service.Calculate(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, rawFormat string) {
	format, err := application.ParseExportFormat(rawFormat)
	if err != nil {
		respondError(w, err)
		return
	}
	in, err := decodeInput(w, r)
	if err != nil {
		respondError(w, err)
		return
	}
	data, contentType, err := h.service.Export(r.Context(), format, in)
	if err != nil {
		respondError(w, err)
		return
	}
	if h.auditLogger != nil {
		_ = h.auditLogger.Log(r.Context(), audit.FromRequest(r, audit.ActionReportExport, "report", string(format), map[string]any{
			"project": in.Project.Name,
			"width":   in.Request.WidthMM,
			"height":  in.Request.HeightMM,
			"bytes":   len(data),
		}))
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", in.Project.FileName(format)))
	_, _ = w.Write(data)
}

// calculateRequest is the wire form. Enumerations arrive as raw strings and
// are normalized here before reaching the engine.
type calculateRequest struct {
	Project    application.Project `json:"project"`
	Screen     screenRequest       `json:"screen"`
	Components componentsRequest   `json:"components"`
}

type screenRequest struct {
	WidthMM     int     `json:"width_mm"`
	HeightMM    int     `json:"height_mm"`
	Environment string  `json:"environment"`
	PitchMM     float64 `json:"pitch_mm"`
	Mounting    string  `json:"mounting"`
	CabinetID   string  `json:"cabinet_id"`
	RefreshHz   int     `json:"refresh_hz"`
	Technology  string  `json:"technology"`
}

type componentsRequest struct {
	ProcessorID     string               `json:"processor_id"`
	CardID          string               `json:"card_id"`
	ModulesPerCard  int                  `json:"modules_per_card"`
	ModulesPerPSU   int                  `json:"modules_per_psu"`
	PSUWatts        float64              `json:"psu_watts"`
	Phase           string               `json:"phase"`
	PowerReservePct float64              `json:"power_reserve_pct"`
	Reserve         sizing.ReservePolicy `json:"reserve"`
}

type inputError struct {
	field   string
	message string
}

func (e *inputError) Error() string { return e.field + ": " + e.message }

func decodeInput(w http.ResponseWriter, r *http.Request) (application.CalculateInput, error) {
	var req calculateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return application.CalculateInput{}, &inputError{field: "body", message: err.Error()}
	}
	if err := checkDimensions(req.Screen.WidthMM, req.Screen.HeightMM); err != nil {
		return application.CalculateInput{}, err
	}

	env, ok := catalog.ParseEnvironment(normalize(req.Screen.Environment))
	if !ok {
		return application.CalculateInput{}, &inputError{field: "environment", message: fmt.Sprintf("unknown environment %q", req.Screen.Environment)}
	}
	mounting, ok := sizing.ParseMounting(normalize(req.Screen.Mounting))
	if !ok {
		return application.CalculateInput{}, &inputError{field: "mounting", message: fmt.Sprintf("unknown mounting %q", req.Screen.Mounting)}
	}
	phase, ok := catalog.ParsePhase(normalize(req.Components.Phase))
	if !ok {
		return application.CalculateInput{}, &inputError{field: "phase", message: fmt.Sprintf("unknown phase %q", req.Components.Phase)}
	}
	installation, ok := application.ParseInstallation(string(req.Project.Installation))
	if !ok {
		return application.CalculateInput{}, &inputError{field: "project.installation", message: fmt.Sprintf("unknown installation %q", req.Project.Installation)}
	}
	req.Project.Installation = installation

	return application.CalculateInput{
		Project: req.Project,
		Request: sizing.ScreenRequest{
			WidthMM:     req.Screen.WidthMM,
			HeightMM:    req.Screen.HeightMM,
			Environment: env,
			PitchMM:     req.Screen.PitchMM,
			Mounting:    mounting,
			CabinetID:   catalog.CabinetID(strings.TrimSpace(req.Screen.CabinetID)),
			RefreshHz:   req.Screen.RefreshHz,
			Technology:  strings.TrimSpace(req.Screen.Technology),
		},
		Selection: sizing.ComponentSelection{
			ProcessorID:     catalog.ProcessorID(strings.TrimSpace(req.Components.ProcessorID)),
			CardID:          catalog.CardID(strings.TrimSpace(req.Components.CardID)),
			ModulesPerCard:  req.Components.ModulesPerCard,
			ModulesPerPSU:   req.Components.ModulesPerPSU,
			PSUWatts:        req.Components.PSUWatts,
			Phase:           phase,
			PowerReservePct: req.Components.PowerReservePct,
			Reserve:         req.Components.Reserve,
		},
	}, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func checkDimensions(widthMM, heightMM int) error {
	if widthMM > sizing.MaxDimensionMM {
		return &inputError{field: "width_mm", message: fmt.Sprintf("must not exceed %d mm", sizing.MaxDimensionMM)}
	}
	if heightMM > sizing.MaxDimensionMM {
		return &inputError{field: "height_mm", message: fmt.Sprintf("must not exceed %d mm", sizing.MaxDimensionMM)}
	}
	return nil
}

func respondError(w http.ResponseWriter, err error) {
	var (
		verr  *sizing.ValidationError
		inerr *inputError
	)
	switch {
	case errors.As(err, &verr):
		status := http.StatusBadRequest
		if errors.Is(err, sizing.ErrUnknownCatalogKey) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, errorResponse{Error: verr.KindName(), Field: verr.Field, Message: verr.Reason})
	case errors.As(err, &inerr):
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid_input", Field: inerr.field, Message: inerr.message})
	case errors.Is(err, application.ErrInvalidProject):
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid_project", Field: "project", Message: err.Error()})
	case errors.Is(err, application.ErrUnsupportedFormat):
		writeError(w, http.StatusNotFound, errorResponse{Error: "unsupported_format", Message: err.Error()})
	case errors.Is(err, application.ErrNoCatalog):
		writeError(w, http.StatusServiceUnavailable, errorResponse{Error: "catalog_unavailable", Message: err.Error()})
	default:
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "internal", Message: "calculation failed"})
	}
}

func writeError(w http.ResponseWriter, status int, body errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
