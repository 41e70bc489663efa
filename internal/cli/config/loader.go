package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store the logger in the command context.
type loggerKey struct{}

// cfgKey is used to store the loaded config in the command context.
type cfgKey struct{}

// IntoContext stores the config in a context.
func IntoContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, cfgKey{}, cfg)
}

// FromContext retrieves the config from the command context, falling
// back to defaults when none was stored.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(cfgKey{}).(*Config); ok {
		return c
	}
	return &Config{
		InputDir:     DefaultInputDir,
		TemplatesDir: DefaultTemplatesDir,
		OutputDir:    DefaultOutputDir,
		Formats:      DefaultFormats,
		OutputFormat: DefaultOutput,
	}
}

// maxUpwardSearchLevels limits how far up the directory tree to search
// for config files.
const maxUpwardSearchLevels = 10

var (
	k              = koanf.New(".")
	configFileUsed string
)

// configNames are the file names probed for project configuration.
var configNames = []string{"tabreport.yaml", "tabreport.yml"}

// findConfigFile finds the config file to use.
// Priority: explicit path > tabreport.yaml > tabreport.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// configExistsIn checks if a tabreport config file exists in the directory.
func configExistsIn(dir string) bool {
	for _, name := range configNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// findProjectRootUpward searches upward from startDir for a config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configExistsIn(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root from the filesystem.
// Priority: upward search from CWD for tabreport.yaml, then CWD.
func inferProjectRoot() string {
	if cwd, err := os.Getwd(); err == nil {
		if root := findProjectRootUpward(cwd); root != "" {
			return root
		}
	}
	cwd, _ := os.Getwd()
	if cwd == "" {
		cwd = "."
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not
// absolute. Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
}

// LoadConfig loads configuration from file, environment variables, and
// flags. Precedence (highest to lowest): flags > env vars > config file
// > defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	projectRoot := inferProjectRoot()

	// Paths given as flags are relative to CWD, not the project root;
	// pin them to absolute before the resolution step below.
	var flagInputDir, flagTemplatesDir, flagOutputDir, flagManifest string
	if flags != nil {
		if flags.Changed("input-dir") {
			if v, _ := flags.GetString("input-dir"); v != "" {
				flagInputDir, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("templates-dir") {
			if v, _ := flags.GetString("templates-dir"); v != "" {
				flagTemplatesDir, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("output-dir") {
			if v, _ := flags.GetString("output-dir"); v != "" {
				flagOutputDir, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("report") {
			if v, _ := flags.GetString("report"); v != "" {
				flagManifest, _ = filepath.Abs(v)
			}
		}
	}

	// An explicit config file anchors the project root at its directory.
	if cfgFile != "" {
		if absPath, err := filepath.Abs(cfgFile); err == nil {
			projectRoot = filepath.Dir(absPath)
		}
	}

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"input_dir":     DefaultInputDir,
		"templates_dir": DefaultTemplatesDir,
		"output_dir":    DefaultOutputDir,
		"formats":       DefaultFormats,
		"verbose":       false,
		"output":        DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file from the project root
	if cfgFile == "" {
		for _, name := range configNames {
			candidate := filepath.Join(projectRoot, name)
			if _, err := os.Stat(candidate); err == nil {
				cfgFile = candidate
				break
			}
		}
	}
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables (TABREPORT_ prefix)
	// Transform: TABREPORT_INPUT_DIR -> input_dir
	if err := k.Load(env.Provider("TABREPORT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "TABREPORT_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			// Kebab-case flags map to snake_case config keys; --format
			// (singular, repeatable) maps onto the formats list.
			key := strings.ReplaceAll(f.Name, "-", "_")
			if key == "format" {
				return "formats", posflag.FlagVal(flags, f)
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve relative paths against the project root; flag paths
	// keep their CWD-relative resolution.
	cfg.ProjectRoot = projectRoot
	if flagInputDir != "" {
		cfg.InputDir = flagInputDir
	} else {
		cfg.InputDir = resolvePathRelativeTo(cfg.InputDir, projectRoot)
	}
	if flagTemplatesDir != "" {
		cfg.TemplatesDir = flagTemplatesDir
	} else {
		cfg.TemplatesDir = resolvePathRelativeTo(cfg.TemplatesDir, projectRoot)
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	} else {
		cfg.OutputDir = resolvePathRelativeTo(cfg.OutputDir, projectRoot)
	}
	if flagManifest != "" {
		cfg.ManifestPath = flagManifest
	} else {
		cfg.ManifestPath = resolvePathRelativeTo(cfg.ManifestPath, projectRoot)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// LoggerKey returns the context key used for storing the logger.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
