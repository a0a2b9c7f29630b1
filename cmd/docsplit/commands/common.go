package commands

import (
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docsplit/internal/config"
	"git.home.luguber.info/inful/docsplit/internal/logfields"
	"git.home.luguber.info/inful/docsplit/internal/metrics"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path (default: ./docsplit.yaml when present)" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text|json); overrides logging.format"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Split SplitCmd `cmd:"" help:"Split the exported document into a page tree"`
	Watch WatchCmd `cmd:"" help:"Split, then split again whenever the input folder changes"`
	Tree  TreeCmd  `cmd:"" help:"Print the page tree without writing anything"`
	Init  InitCmd  `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(config.NormalizeLogFormat(c.LogFormat), level))
	return nil
}

func newLogger(format config.LogFormat, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// SourceFlags are shared by every command that reads an input folder.
type SourceFlags struct {
	Input     string `arg:"" optional:"" help:"Input folder holding the exported document (overrides input)" type:"path"`
	Output    string `short:"o" help:"Output folder (overrides output)" type:"path"`
	HomeTitle string `name:"home-title" help:"Title of the root page (overrides home_title)"`
}

// RunFlags tune a split run.
type RunFlags struct {
	NoClean     bool   `name:"no-clean" help:"Keep existing output instead of recreating the output folder"`
	NoCheck     bool   `name:"no-check" help:"Skip checking the links of the emitted pages"`
	Concurrency int    `short:"j" help:"Number of pages written in parallel (overrides concurrency)" default:"0"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this file after each run" type:"path"`
}

// loadConfig loads the configuration, applies command-line overrides,
// validates the result and reinstalls the logger from it. run may be nil.
func loadConfig(root *CLI, src SourceFlags, run *RunFlags) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}

	if src.Input != "" {
		cfg.Input = src.Input
	}
	if src.Output != "" {
		cfg.Output = src.Output
	}
	if src.HomeTitle != "" {
		cfg.HomeTitle = src.HomeTitle
	}
	if run != nil {
		if run.NoClean {
			cfg.Clean = false
		}
		if run.NoCheck {
			cfg.CheckLinks = false
		}
		if run.Concurrency > 0 {
			cfg.Concurrency = run.Concurrency
		}
		if run.MetricsFile != "" {
			cfg.MetricsFile = run.MetricsFile
		}
	}
	if root.LogFormat != "" {
		cfg.Logging.Format = root.LogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := config.NormalizeLogLevel(cfg.Logging.Level).SlogLevel()
	if root.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(config.NormalizeLogFormat(cfg.Logging.Format), level))
	return cfg, nil
}

// newMetrics returns a registry and recorder when metrics are wanted.
func newMetrics(enabled bool) (*prometheus.Registry, metrics.Recorder) {
	if !enabled {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	return reg, metrics.NewPrometheusRecorder(reg)
}

// writeMetrics exports reg to path; failures are logged only.
func writeMetrics(path string, reg *prometheus.Registry) {
	if path == "" || reg == nil {
		return
	}
	start := time.Now()
	if err := metrics.WriteTextfile(path, reg); err != nil {
		slog.Warn("Failed to write metrics file", logfields.Path(path), logfields.Error(err))
		return
	}
	slog.Debug("Metrics written", logfields.Path(path),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
}
