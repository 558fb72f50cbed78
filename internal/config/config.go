package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = "assetgen.yaml"

// Config represents the configuration parsed from assetgen.yaml.
type Config struct {
	// Output is the path of the generated header.
	Output string `yaml:"output"`
	// Files lists the assets to embed. Entries may be doublestar globs.
	Files []string `yaml:"files"`
	// Indent is the number of spaces used inside arrays and the assets table.
	Indent *int `yaml:"indent"`
	// PerLine is the number of byte values per array line.
	PerLine int `yaml:"per_line"`
	// Mimetypes maps extensions (".svg") to mimetypes ahead of the built-in table.
	Mimetypes map[string]string `yaml:"mimetypes"`
	// Detector configures content-type detection for unknown extensions.
	Detector DetectorConfig `yaml:"detector"`
	// Manual configures the markdown manual page.
	Manual ManualConfig `yaml:"manual"`
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`
}

// DetectorConfig configures the external content-type detector.
type DetectorConfig struct {
	// Command is the executable to run (defaults to "file").
	Command string `yaml:"command"`
	// Args precede the file path on the command line.
	Args []string `yaml:"args"`
	// Timeout bounds a single invocation (e.g. "10s").
	Timeout string `yaml:"timeout"`
}

// ManualConfig configures the manual page rendered from markdown.
type ManualConfig struct {
	// Markdown is the source document.
	Markdown string `yaml:"markdown"`
	// Template is the HTML template containing @MANUAL_HTML@.
	Template string `yaml:"template"`
	// Output is the rendered HTML file.
	Output string `yaml:"output"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level"`
	// Path is the log file path. Empty logs to stderr.
	Path string `yaml:"path"`
}

// EnvOverrides are read from the environment after the file is loaded.
type EnvOverrides struct {
	LogLevel      string        `env:"ASSETGEN_LOG_LEVEL"`
	LogPath       string        `env:"ASSETGEN_LOG_PATH"`
	FileCommand   string        `env:"ASSETGEN_FILE_COMMAND"`
	DetectTimeout time.Duration `env:"ASSETGEN_DETECT_TIMEOUT"`
}

// Load reads and parses the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnv overrides configuration fields from ASSETGEN_* environment variables.
func ApplyEnv(cfg *Config) error {
	var o EnvOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
	if o.LogPath != "" {
		cfg.Logging.Path = o.LogPath
	}
	if o.FileCommand != "" {
		cfg.Detector.Command = o.FileCommand
	}
	if o.DetectTimeout != 0 {
		cfg.Detector.Timeout = o.DetectTimeout.String()
	}
	return nil
}

// ApplyDefaults sets default values for configuration fields that are missing.
func ApplyDefaults(cfg *Config) {
	if cfg.Indent == nil {
		indent := 4
		cfg.Indent = &indent
	}
	if cfg.PerLine == 0 {
		cfg.PerLine = 12
	}
	if cfg.Detector.Command == "" {
		cfg.Detector.Command = "file"
	}
	if cfg.Detector.Args == nil {
		cfg.Detector.Args = []string{"-b", "-i"}
	}
	if cfg.Detector.Timeout == "" {
		cfg.Detector.Timeout = "10s"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate checks the configuration for errors.
func Validate(cfg *Config) error {
	if cfg.Indent != nil && (*cfg.Indent < 0 || *cfg.Indent > 16) {
		return fmt.Errorf("invalid indent: %d (allowed: 0-16)", *cfg.Indent)
	}
	if cfg.PerLine < 0 {
		return fmt.Errorf("invalid per_line: %d (must be positive)", cfg.PerLine)
	}

	if cfg.Detector.Timeout != "" {
		d, err := time.ParseDuration(cfg.Detector.Timeout)
		if err != nil {
			return fmt.Errorf("invalid detector timeout %q: %w", cfg.Detector.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid detector timeout %q: must be positive", cfg.Detector.Timeout)
		}
	}

	for ext, typ := range cfg.Mimetypes {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("mimetype override %q: extension must start with '.'", ext)
		}
		if strings.TrimSpace(typ) == "" {
			return fmt.Errorf("mimetype override %q: empty mimetype", ext)
		}
	}

	if cfg.Logging.Level != "" {
		switch strings.ToLower(cfg.Logging.Level) {
		case "debug", "info", "warn", "error":
			// ok
		default:
			return fmt.Errorf("invalid logging level: %s (allowed: debug, info, warn, error)", cfg.Logging.Level)
		}
	}

	return nil
}

// DetectTimeout returns the parsed detector timeout, zero if unset.
func (c *Config) DetectTimeout() time.Duration {
	d, err := time.ParseDuration(c.Detector.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// IndentWidth returns the configured indent, 4 if unset.
func (c *Config) IndentWidth() int {
	if c.Indent == nil {
		return 4
	}
	return *c.Indent
}

// ExpandFiles resolves glob patterns in patterns. Literal paths are kept as
// given; a pattern matching nothing is an error. Duplicates are kept so the
// generator can report them.
func ExpandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, p := range patterns {
		if !hasMeta(p) {
			files = append(files, p)
			continue
		}
		matches, err := doublestar.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		var regular []string
		for _, m := range matches {
			if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
				regular = append(regular, m)
			}
		}
		if len(regular) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", p)
		}
		sort.Strings(regular)
		files = append(files, regular...)
	}
	return files, nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
