package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Organization stats",
		Headers: []string{"metric", "value"},
		Rows: [][]string{
			{"total", "3"},
			{"published", "1"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("xlsx")
	require.Error(t, err)
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "metric,value\ntotal,3\npublished,1\n", string(out))
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	data := sampleDataset()
	data.Rows = append(data.Rows, []string{"only-one"})
	_, err := NewCSVExporter().Render(data)
	require.Error(t, err)
}
