package export

import (
	"fmt"
	"strings"
)

// Format identifies a supported export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat normalises a user supplied format, defaulting to CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// Dataset defines tabular export content.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Renderer turns a dataset into a downloadable document.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// RendererFor returns the renderer registered for the format.
func RendererFor(format Format) (Renderer, error) {
	switch format {
	case FormatCSV:
		return NewCSVExporter(), nil
	case FormatPDF:
		return NewPDFExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func validate(data Dataset) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	for i, row := range data.Rows {
		if len(row) != len(data.Headers) {
			return fmt.Errorf("row %d has %d columns, expected %d", i, len(row), len(data.Headers))
		}
	}
	return nil
}
