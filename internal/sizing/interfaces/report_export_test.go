package interfaces

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	catalog "ledwall-configurator/internal/catalog/domain"
	"ledwall-configurator/internal/sizing/application"
	sizing "ledwall-configurator/internal/sizing/domain"
)

type staticCatalog struct{}

func (staticCatalog) Current() *catalog.Catalog { return catalog.Default() }

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC) }

func sampleReport(t *testing.T, mutate func(*application.CalculateInput)) application.Report {
	t.Helper()
	svc, err := application.NewService(staticCatalog{},
		application.WithClock(fixedClock{}),
		application.WithLogger(log.New(&bytes.Buffer{}, "", 0)),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	in := application.CalculateInput{
		Project: application.Project{Name: "Atrium", Client: "ACME", Engineer: "R. Ivanova"},
		Request: sizing.ScreenRequest{
			WidthMM: 3840, HeightMM: 2160,
			Environment: catalog.EnvironmentIndoor, PitchMM: 2.5,
			Mounting: sizing.MountingMonolithic, RefreshHz: 3840, Technology: "SMD",
		},
		Selection: sizing.ComponentSelection{
			ProcessorID: "vx1000-pro", CardID: "a8s",
			ModulesPerCard: 12, ModulesPerPSU: 8, PSUWatts: 200,
			Phase: catalog.PhaseSingle220, PowerReservePct: 30,
			Reserve: sizing.ReservePolicy{Mode: sizing.ReservePercent, ModulePct: 10},
		},
	}
	if mutate != nil {
		mutate(&in)
	}
	report, err := svc.Calculate(context.Background(), in)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	return report
}

func TestBuildReportPDF(t *testing.T) {
	data, err := BuildReportPDF(sampleReport(t, nil))
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", data[:8])
	}
}

func TestBuildReportPDFWithWarnings(t *testing.T) {
	report := sampleReport(t, func(in *application.CalculateInput) {
		in.Selection.ProcessorID = "vc2"
	})
	if len(report.Warnings) == 0 {
		t.Fatalf("expected overload warning")
	}
	if _, err := BuildReportPDF(report); err != nil {
		t.Fatalf("pdf: %v", err)
	}
}

func TestBuildReportPDFCyrillicPassport(t *testing.T) {
	report := sampleReport(t, func(in *application.CalculateInput) {
		in.Project = application.Project{Name: "Атриум", Client: "ООО Светлый экран", Engineer: "Р. Иванова"}
	})
	data, err := BuildReportPDF(report)
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.Contains(data, []byte("/FontFile2")) {
		t.Fatalf("expected an embedded TrueType font for non-Latin text")
	}
	latin, err := BuildReportPDF(sampleReport(t, nil))
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if bytes.Equal(latin, data) {
		t.Fatalf("expected Cyrillic project fields to change the document")
	}
}

func TestBuildReportXLSX(t *testing.T) {
	data, err := BuildReportXLSX(sampleReport(t, nil))
	if err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue("summary", "A1")
	if err != nil {
		t.Fatalf("read title: %v", err)
	}
	if title != "LED screen: Atrium" {
		t.Fatalf("unexpected title %q", title)
	}
	item, _ := f.GetCellValue("bom", "B2")
	qty, _ := f.GetCellValue("bom", "D2")
	if item != "LED module" || qty != "185" {
		t.Fatalf("expected first BOM line LED module x185, got %q x%q", item, qty)
	}
	rows, err := f.GetRows("bom")
	if err != nil {
		t.Fatalf("read bom: %v", err)
	}
	if len(rows) != len(sampleReport(t, nil).BOM)+1 {
		t.Fatalf("expected header plus BOM lines, got %d rows", len(rows))
	}
}

func TestBuildReportText(t *testing.T) {
	data, err := BuildReportText(sampleReport(t, nil))
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		"LED screen: Atrium",
		"[Screen]",
		"12 × 14 (168 modules)",
		"5.68 kW (+30%)",
		"29 × 200 W",
		"3×16mm²",
		"[Structure]",
		"[Bill of materials]",
		"2026-05-04",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in report:\n%s", want, text)
		}
	}
	if strings.Contains(text, "WARNING") {
		t.Fatalf("unexpected warning in clean report")
	}
}

func TestBuildReportTextCabinet(t *testing.T) {
	report := sampleReport(t, func(in *application.CalculateInput) {
		in.Request.Mounting = sizing.MountingCabinet
		in.Request.CabinetID = "cab-960x960"
	})
	data, err := BuildReportText(report)
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	text := string(data)
	if strings.Contains(text, "[Structure]") {
		t.Fatalf("cabinet report must not list structure")
	}
	if !strings.Contains(text, "12 (336.0 kg)") {
		t.Fatalf("expected cabinet line in:\n%s", text)
	}
}

func TestRendererOptionsRegisterFormats(t *testing.T) {
	svc, err := application.NewService(staticCatalog{}, append(RendererOptions(),
		application.WithLogger(log.New(&bytes.Buffer{}, "", 0)))...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if got := len(svc.Formats()); got != 4 {
		t.Fatalf("expected 4 formats, got %d", got)
	}
}
