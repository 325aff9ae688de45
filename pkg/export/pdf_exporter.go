package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a single-table A4 document.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType implements Renderer.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension implements Renderer.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render creates a PDF document with the dataset title above the table.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	colWidth := 190.0 / float64(len(data.Headers))
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, value := range row {
			pdf.CellFormat(colWidth, 7, tr(value), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
