package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsplit/internal/content"
	"git.home.luguber.info/inful/docsplit/internal/foundation/errors"
)

// DefaultFilename is the configuration file looked up when none is given.
const DefaultFilename = "docsplit.yaml"

// Config represents the application configuration.
type Config struct {
	// Input is the folder holding the exported document and its assets.
	Input string `yaml:"input"`
	// Output defaults to a "docs" folder next to Input.
	Output   string `yaml:"output,omitempty"`
	MediaDir string `yaml:"media_dir"`

	SourceExt string `yaml:"source_ext"`
	PageExt   string `yaml:"page_ext"`
	MediaExt  string `yaml:"media_ext"`

	HomeTitle     string `yaml:"home_title"`
	Layout        string `yaml:"layout"`
	HomeLayout    string `yaml:"home_layout"`
	NavLinkSuffix string `yaml:"nav_link_suffix"`

	// Clean deletes and recreates the output folder before each run.
	Clean       bool `yaml:"clean"`
	CheckLinks  bool `yaml:"check_links"`
	Concurrency int  `yaml:"concurrency"`

	// Artifacts are appended to the built-in export artifact rules.
	Artifacts []content.Rule `yaml:"artifacts,omitempty"`

	Logging     LoggingConfig `yaml:"logging"`
	Watch       WatchConfig   `yaml:"watch"`
	MetricsFile string        `yaml:"metrics_file,omitempty"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	// Debounce collapses bursts of file events into one rebuild.
	Debounce time.Duration `yaml:"debounce"`
	// Every schedules an unconditional rebuild; zero disables it.
	Every time.Duration `yaml:"every"`
	// MetricsAddr serves Prometheus metrics while watching, e.g. ":9464".
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// Default returns the configuration used when no file overrides a key.
func Default() *Config {
	return &Config{
		Input:         ".",
		MediaDir:      "media",
		SourceExt:     ".md",
		PageExt:       ".html",
		MediaExt:      ".png",
		HomeTitle:     "Home",
		Layout:        "default",
		HomeLayout:    "home",
		NavLinkSuffix: " <br/><br/>",
		Clean:         true,
		CheckLinks:    true,
		Concurrency:   1,
		Logging: LoggingConfig{
			Level:  string(LogLevelInfo),
			Format: string(LogFormatText),
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path with
// ${VAR} references expanded from the environment (after .env files are
// loaded). An empty path loads DefaultFilename when it exists and otherwise
// returns the defaults.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFilename
	}

	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
	case !explicit && stderrors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.ConfigError("configuration file not found").
			WithContext("path", path).
			WithCause(err).
			Build()
	default:
		return nil, errors.ConfigError("failed to read configuration file").
			WithContext("path", path).
			WithCause(err).
			Build()
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.ConfigError("failed to parse configuration file").
			WithContext("path", path).
			WithCause(err).
			Build()
	}
	return cfg, nil
}

// ResolveOutput returns the output folder, defaulting to "docs" next to the
// input folder.
func (c *Config) ResolveOutput() string {
	if c.Output != "" {
		return filepath.Clean(c.Output)
	}
	abs, err := filepath.Abs(c.Input)
	if err != nil {
		abs = filepath.Clean(c.Input)
	}
	return filepath.Join(filepath.Dir(abs), "docs")
}

// ArtifactRules returns the built-in rules followed by the configured ones.
func (c *Config) ArtifactRules() []content.Rule {
	return append(content.DefaultArtifacts(), c.Artifacts...)
}

// Init writes an example configuration file to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	example := Default()
	example.Input = "./manual"
	example.Artifacts = []content.Rule{
		{Name: "scrivener-separator", Equals: "* * *", Replace: ""},
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.FileSystemError("failed to write configuration file").
			WithContext("path", path).
			WithCause(err).
			Build()
	}
	return nil
}
