package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	catalog "ledwall-configurator/internal/catalog/domain"
	"ledwall-configurator/internal/observability/metrics"
	sizing "ledwall-configurator/internal/sizing/domain"
)

// ExportFormat names a report document format.
type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatXLSX ExportFormat = "xlsx"
	FormatText ExportFormat = "txt"
	FormatJSON ExportFormat = "json"
)

// ParseExportFormat normalizes a format name.
func ParseExportFormat(value string) (ExportFormat, error) {
	format := ExportFormat(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), ".")))
	switch format {
	case FormatPDF, FormatXLSX, FormatText, FormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
	}
}

// CatalogProvider exposes the active catalog snapshot.
type CatalogProvider interface {
	Current() *catalog.Catalog
}

// Clock provides time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Renderer turns a report into document bytes.
type Renderer func(Report) ([]byte, error)

type renderer struct {
	contentType string
	render      Renderer
}

// Service runs sizing calculations and renders reports.
type Service struct {
	catalogs  CatalogProvider
	logger    *log.Logger
	clock     Clock
	renderers map[ExportFormat]renderer
}

// ServiceOption customizes the sizing service.
type ServiceOption func(*Service)

// WithClock assigns a clock.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger assigns a logger.
func WithLogger(logger *log.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer registers a document renderer for format.
func WithRenderer(format ExportFormat, contentType string, fn Renderer) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.renderers[format] = renderer{contentType: contentType, render: fn}
		}
	}
}

// NewService constructs a sizing service. JSON export is always available.
func NewService(catalogs CatalogProvider, opts ...ServiceOption) (*Service, error) {
	if catalogs == nil {
		return nil, errors.New("sizing: nil catalog provider")
	}
	s := &Service{
		catalogs:  catalogs,
		logger:    log.Default(),
		clock:     systemClock{},
		renderers: make(map[ExportFormat]renderer),
	}
	s.renderers[FormatJSON] = renderer{contentType: "application/json", render: renderJSON}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Catalog returns the active catalog snapshot.
func (s *Service) Catalog() *catalog.Catalog {
	if s == nil {
		return nil
	}
	return s.catalogs.Current()
}

// Calculate sizes a screen and itemizes the bill of materials.
func (s *Service) Calculate(ctx context.Context, in CalculateInput) (Report, error) {
	if s == nil {
		return Report{}, errors.New("sizing: nil service")
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	start := time.Now()
	report, err := s.calculate(in)
	metrics.ObserveCalculation(resultLabel(err), time.Since(start))
	if err != nil {
		s.logger.Printf("sizing rejected: %v", err)
		return Report{}, err
	}
	metrics.IncPortStatus(string(report.Result.PortStatus))
	s.logger.Printf("sizing calculated: modules=%d grid=%dx%d peak_kw=%.2f psu=%d cards=%d ports=%s",
		report.Result.ModuleCount, report.Result.Columns, report.Result.Rows,
		report.Result.PeakWithReserveKW, report.Result.PSUCount, report.Result.CardCount, report.Result.PortStatus)
	return report, nil
}

func (s *Service) calculate(in CalculateInput) (Report, error) {
	if err := in.Project.validate(); err != nil {
		return Report{}, err
	}
	c := s.catalogs.Current()
	if c == nil {
		return Report{}, ErrNoCatalog
	}
	res, err := sizing.Calculate(in.Request, in.Selection, c)
	if err != nil {
		return Report{}, err
	}
	report := Report{
		Project:        in.Project,
		Request:        in.Request,
		Selection:      in.Selection,
		ProcessorLabel: string(in.Selection.ProcessorID),
		CardLabel:      string(in.Selection.CardID),
		Result:         res,
		BOM:            sizing.BuildBOM(res, in.Request, in.Selection, c),
		GeneratedAt:    s.clock.Now().UTC(),
	}
	if p, err := c.Processor(in.Selection.ProcessorID); err == nil {
		report.ProcessorLabel = p.Label
	}
	if card, err := c.Card(in.Selection.CardID); err == nil {
		report.CardLabel = card.Label
	}
	report.Warnings = warningsFor(report, c)
	return report, nil
}

// Export calculates and renders the report in format.
func (s *Service) Export(ctx context.Context, format ExportFormat, in CalculateInput) ([]byte, string, error) {
	if s == nil {
		return nil, "", errors.New("sizing: nil service")
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	report, err := s.Calculate(ctx, in)
	if err != nil {
		return nil, "", err
	}
	data, err := s.Render(format, report)
	if err != nil {
		return nil, "", err
	}
	return data, r.contentType, nil
}

// Render renders an already calculated report.
func (s *Service) Render(format ExportFormat, report Report) ([]byte, error) {
	r, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	start := time.Now()
	data, err := r.render(report)
	metrics.ObserveExport(string(format), resultLabel(err), time.Since(start))
	if err != nil {
		s.logger.Printf("report export failed: format=%s err=%v", format, err)
		return nil, err
	}
	return data, nil
}

// Formats lists the registered export formats.
func (s *Service) Formats() []ExportFormat {
	out := make([]ExportFormat, 0, len(s.renderers))
	for _, f := range []ExportFormat{FormatPDF, FormatXLSX, FormatText, FormatJSON} {
		if _, ok := s.renderers[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

func warningsFor(r Report, c *catalog.Catalog) []string {
	var out []string
	res := r.Result
	switch res.PortStatus {
	case sizing.PortStatusOverloaded:
		out = append(out, fmt.Sprintf("%s is overloaded: %d ports required, %d available", r.ProcessorLabel, res.RequiredPorts, res.AvailablePorts))
	case sizing.PortStatusWarning:
		out = append(out, fmt.Sprintf("%s port load %.1f%% is above %.0f%%", r.ProcessorLabel, res.PortLoadPct, c.Policy().PortWarnPct))
	}
	if r.Request.RefreshHz > 0 && !containsInt(c.Tables().RefreshRates, r.Request.RefreshHz) {
		out = append(out, fmt.Sprintf("refresh rate %d Hz is not a catalog option", r.Request.RefreshHz))
	}
	if p, err := c.Processor(r.Selection.ProcessorID); err == nil && p.Family == catalog.FamilyAsync {
		out = append(out, fmt.Sprintf("%s is an asynchronous player: content plays from local storage", p.Label))
	}
	return out
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func renderJSON(r Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resultLabel(err error) string {
	var verr *sizing.ValidationError
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.As(err, &verr), errors.Is(err, ErrInvalidProject):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
