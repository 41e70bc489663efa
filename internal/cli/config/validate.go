package config

import (
	"fmt"
	"os"

	"github.com/inkline-labs/tabreport/internal/report"
)

// Validate checks values that every command depends on. Directory
// existence is checked separately so help output works anywhere.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if _, err := c.ReportFormats(); err != nil {
		return err
	}
	return nil
}

// ValidateDirectories checks that the input directory exists.
func (c *Config) ValidateDirectories() error {
	if _, err := os.Stat(c.InputDir); os.IsNotExist(err) {
		return fmt.Errorf("input directory does not exist: %s\nHint: Create the directory or use --input-dir to specify a different path", c.InputDir)
	}
	return nil
}

// ReportFormats parses the configured format names.
func (c *Config) ReportFormats() ([]report.Format, error) {
	names := c.Formats
	if len(names) == 0 {
		names = DefaultFormats
	}
	formats := make([]report.Format, 0, len(names))
	for _, name := range names {
		f, err := report.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}
