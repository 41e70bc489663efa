// Package config provides configuration management for the tabreport CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	InputDir     string   `koanf:"input_dir"`
	TemplatesDir string   `koanf:"templates_dir"`
	OutputDir    string   `koanf:"output_dir"`
	Formats      []string `koanf:"formats"`
	ManifestPath string   `koanf:"report"`
	Verbose      bool     `koanf:"verbose"`
	OutputFormat string   `koanf:"output"`
	ProjectRoot  string   `koanf:"-"`
}

// Default configuration values.
const (
	DefaultInputDir     = "input"
	DefaultTemplatesDir = "templates"
	DefaultOutputDir    = "output"
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// DefaultFormats is produced when no formats are configured.
var DefaultFormats = []string{"pdf"}
