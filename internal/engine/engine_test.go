package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkline-labs/tabreport/internal/report"
	"github.com/inkline-labs/tabreport/internal/testutil"
)

const salesCSV = `Product,Quantity,UnitPrice
Widget,10,2.00
Gadget,5,10.00
Widget,20,2.00
`

const salesManifest = `title: Monthly Sales Performance Report
group_by: Product
derived:
  - name: TotalPrice
    multiply: [Quantity, UnitPrice]
measures:
  - column: TotalPrice
    op: sum
    label: Total Revenue
    currency: true
`

func fixedClock() func() time.Time {
	at := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

// setupProject creates input/templates/output directories with a sample
// CSV and manifest, returning the engine config.
func setupProject(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	for _, d := range []string{"input", "templates", "output"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, d), 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "input", "sales_data.csv"), []byte(salesCSV), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "report.yaml"), []byte(salesManifest), 0644))

	return Config{
		InputDir:     filepath.Join(dir, "input"),
		TemplatesDir: filepath.Join(dir, "templates"),
		OutputDir:    filepath.Join(dir, "output"),
		Formats:      []report.Format{report.FormatHTML},
		Logger:       testutil.NewTestLogger(t),
		Now:          fixedClock(),
	}
}

func TestNew_RequiresOutputDir(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_DefaultsToPDF(t *testing.T) {
	e, err := New(Config{OutputDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, []report.Format{report.FormatPDF}, e.cfg.Formats)
}

func TestEngine_Run(t *testing.T) {
	cfg := setupProject(t)
	e, err := New(cfg)
	require.NoError(t, err)

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Documents, 1)
	doc := result.Documents[0]
	assert.Equal(t, report.FormatHTML, doc.Format)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "sales_data_report.html"), doc.Path)

	content, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	html := string(content)
	assert.Contains(t, html, "Monthly Sales Performance Report")
	assert.Contains(t, html, "Widget")
	assert.Contains(t, html, "$60.00")
	assert.Contains(t, html, "$110.00")
}

func TestEngine_Run_MultipleFormats(t *testing.T) {
	cfg := setupProject(t)
	cfg.Formats = []report.Format{report.FormatPDF, report.FormatHTML}
	e, err := New(cfg)
	require.NoError(t, err)

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Documents, 2)
	assert.Equal(t, report.FormatPDF, result.Documents[0].Format)
	assert.Equal(t, report.FormatHTML, result.Documents[1].Format)
	for _, doc := range result.Documents {
		_, err := os.Stat(doc.Path)
		assert.NoError(t, err, doc.Path)
	}
}

func TestEngine_Run_Deterministic(t *testing.T) {
	cfg := setupProject(t)

	render := func() []byte {
		e, err := New(cfg)
		require.NoError(t, err)
		result, err := e.Run(context.Background())
		require.NoError(t, err)
		content, err := os.ReadFile(result.Documents[0].Path)
		require.NoError(t, err)
		return content
	}

	assert.Equal(t, render(), render(), "fixed clock must yield identical output")
}

func TestEngine_Run_NoInputs(t *testing.T) {
	cfg := setupProject(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.InputDir, "sales_data.csv")))

	e, err := New(cfg)
	require.NoError(t, err)

	_, err = e.Run(context.Background())
	assert.True(t, errors.Is(err, ErrNoInputs))
}

func TestEngine_Run_SkipsUnsupportedFiles(t *testing.T) {
	cfg := setupProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "notes.txt"), []byte("hi"), 0644))

	e, err := New(cfg)
	require.NoError(t, err)

	result, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Documents, 1)
}

func TestEngine_Run_CanceledContext(t *testing.T) {
	cfg := setupProject(t)
	e, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_RunFile(t *testing.T) {
	cfg := setupProject(t)
	e, err := New(cfg)
	require.NoError(t, err)

	result, err := e.RunFile(context.Background(), filepath.Join(cfg.InputDir, "sales_data.csv"))
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
}

func TestEngine_RunFile_BadInput(t *testing.T) {
	cfg := setupProject(t)
	e, err := New(cfg)
	require.NoError(t, err)

	_, err = e.RunFile(context.Background(), filepath.Join(cfg.InputDir, "missing.csv"))
	assert.Error(t, err)

	// A failed run leaves nothing behind
	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEngine_ExplicitManifestMustExist(t *testing.T) {
	cfg := setupProject(t)
	cfg.ManifestPath = filepath.Join(cfg.TemplatesDir, "nope.yaml")

	e, err := New(cfg)
	require.NoError(t, err)

	_, err = e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest")
}

func TestEngine_NoManifestInfersEverything(t *testing.T) {
	cfg := setupProject(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.TemplatesDir, "report.yaml")))

	e, err := New(cfg)
	require.NoError(t, err)

	result, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)

	content, err := os.ReadFile(result.Documents[0].Path)
	require.NoError(t, err)
	// Inferred: group by Product, sum the numeric columns
	assert.Contains(t, string(content), "Summary Report by Product")
}

func TestEngine_Run_WithChart(t *testing.T) {
	cfg := setupProject(t)
	manifest := salesManifest + `chart:
  measure: TotalPrice
  title: Revenue by Product
`
	require.NoError(t, os.WriteFile(filepath.Join(cfg.TemplatesDir, "report.yaml"), []byte(manifest), 0644))

	e, err := New(cfg)
	require.NoError(t, err)

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	content, err := os.ReadFile(result.Documents[0].Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "data:image/png;base64,")
}

func TestEngine_DOCXWithoutTemplateFails(t *testing.T) {
	cfg := setupProject(t)
	cfg.Formats = []report.Format{report.FormatDOCX}

	e, err := New(cfg)
	require.NoError(t, err)

	_, err = e.Run(context.Background())
	assert.Error(t, err)
}
