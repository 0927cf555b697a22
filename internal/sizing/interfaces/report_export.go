package interfaces

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"ledwall-configurator/internal/sizing/application"
)

// pdfFont is a UTF-8 font so Cyrillic project fields and the mm² cable
// labels render as written.
const pdfFont = "DejaVuSans"

var (
	//go:embed fonts/DejaVuSans.ttf
	dejaVuSans []byte
	//go:embed fonts/DejaVuSans-Bold.ttf
	dejaVuSansBold []byte
)

// RendererOptions registers every document format with the sizing service.
func RendererOptions() []application.ServiceOption {
	return []application.ServiceOption{
		application.WithRenderer(application.FormatPDF, "application/pdf", BuildReportPDF),
		application.WithRenderer(application.FormatXLSX, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", BuildReportXLSX),
		application.WithRenderer(application.FormatText, "text/plain; charset=utf-8", BuildReportText),
	}
}

// BuildReportPDF renders the calculation summary and BOM as an A4 PDF.
func BuildReportPDF(r application.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(r.GeneratedAt)
	pdf.SetModificationDate(r.GeneratedAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(r.Title(), true)
	pdf.AddUTF8FontFromBytes(pdfFont, "", dejaVuSans)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", dejaVuSansBold)

	pdf.SetFont(pdfFont, "B", 14)
	pdf.AddPage()
	pdf.Cell(0, 8, r.Title())
	pdf.Ln(10)

	if len(r.Warnings) > 0 {
		pdf.SetFont(pdfFont, "B", 10)
		pdf.SetFillColor(255, 220, 220)
		for _, w := range r.Warnings {
			pdf.CellFormat(0, 7, "! "+w, "1", 1, "L", true, 0, "")
		}
		pdf.Ln(3)
	}

	for _, section := range reportSections(r) {
		pdf.SetFont(pdfFont, "B", 11)
		pdf.Cell(0, 7, section.title)
		pdf.Ln(7)
		pdf.SetFont(pdfFont, "", 10)
		for _, row := range section.rows {
			pdf.CellFormat(55, 5, row.label, "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 5, row.value, "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	pdf.AddPage()
	pdf.SetFont(pdfFont, "B", 11)
	pdf.Cell(0, 7, "Bill of materials")
	pdf.Ln(9)
	pdf.SetFont(pdfFont, "B", 10)
	pdf.CellFormat(10, 6, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(85, 6, "Specification", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(15, 6, "Unit", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont(pdfFont, "", 10)
	for _, line := range r.BOM {
		pdf.CellFormat(10, 6, fmt.Sprintf("%d", line.Position), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, line.Item, "1", 0, "L", false, 0, "")
		pdf.CellFormat(85, 6, line.Spec, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, formatQuantity(line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(15, 6, line.Unit, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReportXLSX renders a workbook with summary and bom sheets.
func BuildReportXLSX(r application.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summarySheet := "summary"
	bomSheet := "bom"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(bomSheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", r.Title())
	_ = f.SetCellStyle(summarySheet, "A1", "A1", bold)
	row := 3
	for _, w := range r.Warnings {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Warning")
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), w)
		row++
	}
	for _, section := range reportSections(r) {
		if row > 3 {
			row++
		}
		cell := fmt.Sprintf("A%d", row)
		_ = f.SetCellValue(summarySheet, cell, section.title)
		_ = f.SetCellStyle(summarySheet, cell, cell, bold)
		row++
		for _, item := range section.rows {
			_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), item.label)
			_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), item.value)
			row++
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 24)
	_ = f.SetColWidth(summarySheet, "B", "B", 48)

	_ = f.SetCellValue(bomSheet, "A1", "#")
	_ = f.SetCellValue(bomSheet, "B1", "Item")
	_ = f.SetCellValue(bomSheet, "C1", "Specification")
	_ = f.SetCellValue(bomSheet, "D1", "Quantity")
	_ = f.SetCellValue(bomSheet, "E1", "Unit")
	_ = f.SetCellStyle(bomSheet, "A1", "E1", bold)
	for i, line := range r.BOM {
		row := i + 2
		_ = f.SetCellValue(bomSheet, fmt.Sprintf("A%d", row), line.Position)
		_ = f.SetCellValue(bomSheet, fmt.Sprintf("B%d", row), line.Item)
		_ = f.SetCellValue(bomSheet, fmt.Sprintf("C%d", row), line.Spec)
		_ = f.SetCellValue(bomSheet, fmt.Sprintf("D%d", row), line.Quantity)
		_ = f.SetCellValue(bomSheet, fmt.Sprintf("E%d", row), line.Unit)
	}
	_ = f.SetColWidth(bomSheet, "B", "B", 22)
	_ = f.SetColWidth(bomSheet, "C", "C", 36)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
