// Package engine orchestrates the report pipeline: load a tabular
// source, build summaries and charts, render each requested format,
// and write the documents. Execution is strictly sequential; one input
// file produces one document per format.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/inkline-labs/tabreport/internal/chart"
	"github.com/inkline-labs/tabreport/internal/dataset"
	"github.com/inkline-labs/tabreport/internal/report"
	"github.com/inkline-labs/tabreport/internal/summary"
)

// ErrNoInputs is returned when the input directory holds no tabular files.
var ErrNoInputs = errors.New("no tabular input files found")

// Config holds engine configuration.
type Config struct {
	// InputDir is scanned for .csv and .xlsx files when no explicit
	// input is given.
	InputDir string
	// TemplatesDir holds report.yaml, report.html.tmpl and report.docx.
	TemplatesDir string
	// OutputDir receives generated documents.
	OutputDir string
	// Formats are the document formats to produce.
	Formats []report.Format
	// ManifestPath overrides <TemplatesDir>/report.yaml.
	ManifestPath string
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
	// Now supplies the report timestamp; defaults to time.Now. Tests
	// and reproducible builds inject a fixed clock.
	Now func() time.Time
}

// Engine runs the report pipeline.
type Engine struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
	writer *report.Writer
}

// Document describes one written output file.
type Document struct {
	Input  string        `json:"input"`
	Format report.Format `json:"format"`
	Path   string        `json:"path"`
	Bytes  int           `json:"bytes"`
}

// Result summarizes a pipeline run.
type Result struct {
	RunID     string        `json:"run_id"`
	Documents []Document    `json:"documents"`
	Elapsed   time.Duration `json:"-"`
}

// New creates an engine. Formats defaults to PDF when empty.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = []report.Format{report.FormatPDF}
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	return &Engine{
		cfg:    cfg,
		logger: logger,
		now:    now,
		writer: &report.Writer{OutputDir: cfg.OutputDir},
	}, nil
}

// Run processes every tabular file in the input directory, in name
// order. The first failing file aborts the run.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	inputs, err := e.discoverInputs()
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputs, e.cfg.InputDir)
	}

	result := e.newResult()
	start := e.now()
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs, err := e.processFile(input)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(input), err)
		}
		result.Documents = append(result.Documents, docs...)
	}
	result.Elapsed = e.now().Sub(start)
	return result, nil
}

// RunFile processes a single input file.
func (e *Engine) RunFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := e.newResult()
	start := e.now()
	docs, err := e.processFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	result.Documents = docs
	result.Elapsed = e.now().Sub(start)
	return result, nil
}

func (e *Engine) newResult() *Result {
	return &Result{RunID: uuid.NewString()}
}

// discoverInputs lists supported tabular files in the input directory.
func (e *Engine) discoverInputs() ([]string, error) {
	entries, err := os.ReadDir(e.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var inputs []string
	for _, entry := range entries {
		if entry.IsDir() || !dataset.IsSupported(entry.Name()) {
			continue
		}
		inputs = append(inputs, filepath.Join(e.cfg.InputDir, entry.Name()))
	}
	sort.Strings(inputs)
	return inputs, nil
}

// processFile runs the full pipeline for one input file.
func (e *Engine) processFile(path string) ([]Document, error) {
	e.logger.Info("loading input", "file", path)
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("input loaded", "columns", len(ds.Columns), "rows", len(ds.Rows))

	manifest, err := e.loadManifest()
	if err != nil {
		return nil, err
	}

	rep, err := e.buildReport(ds, manifest)
	if err != nil {
		return nil, err
	}

	var docs []Document
	for _, format := range e.cfg.Formats {
		renderer, err := e.rendererFor(format)
		if err != nil {
			return nil, err
		}

		data, err := renderer.Render(rep)
		if err != nil {
			return nil, fmt.Errorf("%s render: %w", format, err)
		}

		outPath, err := e.writer.Write(rep.BaseName(), format, data)
		if err != nil {
			return nil, err
		}

		e.logger.Info("report written", "format", format, "path", outPath, "bytes", len(data))
		docs = append(docs, Document{
			Input:  path,
			Format: format,
			Path:   outPath,
			Bytes:  len(data),
		})
	}
	return docs, nil
}

// loadManifest reads the report manifest, falling back to an empty one
// (everything inferred) when no file exists.
func (e *Engine) loadManifest() (*report.Manifest, error) {
	path := e.cfg.ManifestPath
	explicit := path != ""
	if !explicit {
		path = filepath.Join(e.cfg.TemplatesDir, "report.yaml")
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, fmt.Errorf("report manifest not readable: %w", err)
		}
		return &report.Manifest{}, nil
	}
	return report.LoadManifest(path)
}

// buildReport runs the Builder stage: aggregation, statistics, chart.
func (e *Engine) buildReport(ds *dataset.DataSet, manifest *report.Manifest) (*report.Report, error) {
	spec, err := manifest.Spec(ds)
	if err != nil {
		return nil, err
	}

	table, err := summary.Build(ds, spec)
	if err != nil {
		return nil, err
	}
	if table.DroppedRows > 0 {
		e.logger.Warn("rows dropped during aggregation",
			"dropped", table.DroppedRows, "total", table.SourceRows)
	}

	rep := &report.Report{
		Title:       manifest.TitleFor(spec.GroupBy),
		Description: manifest.Description,
		Source:      ds.Source,
		GeneratedAt: e.now(),
		Table:       table,
		Stats:       summary.Describe(ds),
	}

	if manifest.Chart != nil {
		png, err := chart.Bar(table, chart.Spec{
			Measure: manifest.Chart.Measure,
			Title:   manifest.Chart.Title,
		})
		if err != nil {
			return nil, fmt.Errorf("chart: %w", err)
		}
		rep.ChartPNG = png
		rep.ChartTitle = manifest.Chart.Title
	}

	return rep, nil
}

// rendererFor maps a format to its renderer, pointing DOCX and HTML at
// templates in the templates directory.
func (e *Engine) rendererFor(format report.Format) (report.Renderer, error) {
	switch format {
	case report.FormatPDF:
		return &report.PDFRenderer{}, nil
	case report.FormatHTML:
		return &report.HTMLRenderer{
			TemplatePath: filepath.Join(e.cfg.TemplatesDir, "report.html.tmpl"),
		}, nil
	case report.FormatDOCX:
		return &report.DOCXRenderer{
			TemplatePath: filepath.Join(e.cfg.TemplatesDir, "report.docx"),
		}, nil
	}
	return nil, fmt.Errorf("unsupported output format: %q", format)
}
