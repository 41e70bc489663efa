package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLRenderer_Render(t *testing.T) {
	h := &HTMLRenderer{}
	out, err := h.Render(sampleReport())
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "Monthly Sales Performance Report")
	assert.Contains(t, html, "Widget")
	assert.Contains(t, html, "$1,259.37")
	assert.Contains(t, html, "$2,100.87")
	assert.Contains(t, html, "2026-07-31 12:00:00 UTC")
	// Stats table
	assert.Contains(t, html, "Quantity")
	assert.Contains(t, html, "8.50")
	// No chart without PNG bytes
	assert.NotContains(t, html, "data:image/png")
}

func TestHTMLRenderer_Render_EmbedsChart(t *testing.T) {
	r := sampleReport()
	r.ChartPNG = []byte{0x89, 'P', 'N', 'G'}
	r.ChartTitle = "Revenue by Product"

	out, err := (&HTMLRenderer{}).Render(r)
	require.NoError(t, err)

	assert.Contains(t, string(out), "data:image/png;base64,")
	assert.Contains(t, string(out), "Revenue by Product")
}

func TestHTMLRenderer_Render_EscapesValues(t *testing.T) {
	r := sampleReport()
	r.Table.Groups[0].Key = "<script>alert(1)</script>"

	out, err := (&HTMLRenderer{}).Render(r)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "<script>alert(1)</script>")
}

func TestHTMLRenderer_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("<h1>{{.Title}}</h1>"), 0644))

	out, err := (&HTMLRenderer{TemplatePath: path}).Render(sampleReport())
	require.NoError(t, err)

	assert.Equal(t, "<h1>Monthly Sales Performance Report</h1>", string(out))
}

func TestHTMLRenderer_MissingCustomTemplateFallsBack(t *testing.T) {
	h := &HTMLRenderer{TemplatePath: filepath.Join(t.TempDir(), "nope.tmpl")}
	out, err := h.Render(sampleReport())
	require.NoError(t, err)
	assert.Contains(t, string(out), "<html")
}

func TestHTMLRenderer_Deterministic(t *testing.T) {
	h := &HTMLRenderer{}
	a, err := h.Render(sampleReport())
	require.NoError(t, err)
	b, err := h.Render(sampleReport())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
