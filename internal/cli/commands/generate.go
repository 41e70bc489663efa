package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/inkline-labs/tabreport/internal/cli/config"
	"github.com/inkline-labs/tabreport/internal/cli/output"
	"github.com/inkline-labs/tabreport/internal/engine"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Generate reports from tabular input files",
		Long: `Run the report pipeline: load tabular data, build summary tables and
charts, fill the template for each requested format, and write the
documents to the output directory.

With a file argument only that file is processed; otherwise every .csv
and .xlsx file in the input directory is processed in name order.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Generate reports for every file in the input directory
  tabreport generate

  # Generate a single report as PDF and HTML
  tabreport generate input/sales_data.csv --format pdf,html

  # Machine-readable result for CI
  tabreport generate --output json`,
		Aliases: []string{"gen", "run"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args)
		},
	}
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	r := output.FromContext(ctx)
	logger := config.GetLogger(ctx)

	formats, err := cfg.ReportFormats()
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.Config{
		InputDir:     cfg.InputDir,
		TemplatesDir: cfg.TemplatesDir,
		OutputDir:    cfg.OutputDir,
		Formats:      formats,
		ManifestPath: cfg.ManifestPath,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	var result *engine.Result
	if len(args) == 1 {
		result, err = eng.RunFile(ctx, args[0])
	} else {
		if dirErr := cfg.ValidateDirectories(); dirErr != nil {
			return dirErr
		}
		result, err = eng.Run(ctx)
	}
	if err != nil {
		if errors.Is(err, engine.ErrNoInputs) {
			return fmt.Errorf("%w\nHint: Place .csv or .xlsx files in %s, or pass a file argument", err, cfg.InputDir)
		}
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return generateJSON(r, result)
	case output.ModeMarkdown:
		return generateMarkdown(r, result)
	default:
		return generateText(r, result)
	}
}

func generateText(r *output.Renderer, result *engine.Result) error {
	r.Header(1, "Reports Generated")
	r.Println("")

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Input", "Format", "Output", "Size"})
	for _, doc := range result.Documents {
		t.AppendRow(table.Row{
			filepath.Base(doc.Input),
			string(doc.Format),
			doc.Path,
			fmt.Sprintf("%d B", doc.Bytes),
		})
	}
	r.Println(t.Render())

	r.Println("")
	r.Success(fmt.Sprintf("%d documents written in %s",
		len(result.Documents), result.Elapsed.Round(time.Millisecond)))
	return nil
}

func generateMarkdown(r *output.Renderer, result *engine.Result) error {
	r.Println(output.FormatHeader(1, "Reports Generated"))
	r.Println("")
	for _, doc := range result.Documents {
		r.Println(output.FormatKeyValue("Input", filepath.Base(doc.Input)))
		r.Println(output.FormatKeyValue("Format", string(doc.Format)))
		r.Println(output.FormatKeyValue("Output", doc.Path))
		r.Println("")
	}
	r.Printf("**Total Documents:** %d\n", len(result.Documents))
	return nil
}

func generateJSON(r *output.Renderer, result *engine.Result) error {
	return r.JSON(struct {
		RunID     string            `json:"run_id"`
		Documents []engine.Document `json:"documents"`
		ElapsedMS int64             `json:"elapsed_ms"`
	}{
		RunID:     result.RunID,
		Documents: result.Documents,
		ElapsedMS: result.Elapsed.Milliseconds(),
	})
}
