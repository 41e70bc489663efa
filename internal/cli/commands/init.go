package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/inkline-labs/tabreport/internal/cli/config"
	"github.com/inkline-labs/tabreport/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tabreport project",
		Long: `Initialize a new tabreport project with default directory structure and configuration.

This creates:
  - input/ directory for CSV and XLSX data files
  - templates/ directory for report templates and the report.yaml manifest
  - output/ directory for generated documents
  - tabreport.yaml configuration file

Use --example to create a full working demo project with sample sales
data and a ready-to-run report manifest.`,
		Example: `  # Initialize in current directory
  tabreport init

  # Initialize with a full working example
  tabreport init --example

  # Initialize in a new directory
  tabreport init my-reports --example

  # Force overwrite existing config
  tabreport init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			// Renderer bound to the command streams; init may run before
			// any project config exists.
			cfg := config.FromContext(cmd.Context())
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			if example {
				return runInitExample(r, dir, force)
			}
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Create a full example project with sample data and a manifest")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := prepareProjectDir(dir, force); err != nil {
		return err
	}

	if err := copyTemplate("minimal", dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles("minimal")
	for _, f := range files {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("tabreport project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Drop .csv or .xlsx files into input/")
	r.Println("  2. Adjust templates/report.yaml to describe the report")
	r.Println("  3. Run 'tabreport generate' to produce documents")
	r.Println("  4. Run 'tabreport inspect <file>' to preview a dataset")

	return nil
}

func runInitExample(r *output.Renderer, dir string, force bool) error {
	if err := prepareProjectDir(dir, force); err != nil {
		return err
	}

	if err := copyTemplate("example", dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles("example")
	groups := groupTemplateFiles(files)

	r.Header(2, "Configuration")
	for _, f := range groups["config"] {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Header(2, "Input")
	for _, f := range groups["input"] {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Header(2, "Templates")
	for _, f := range groups["templates"] {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("tabreport project initialized with example data!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  tabreport generate            Build the sample sales report")
	r.Println("  tabreport inspect input/sales_data.csv")
	r.Println("  tabreport generate -f pdf,html,docx")

	return nil
}

// prepareProjectDir creates the target directory and refuses to clobber
// an existing config unless forced.
func prepareProjectDir(dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "tabreport.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("tabreport.yaml already exists. Use --force to overwrite")
	}
	return nil
}
