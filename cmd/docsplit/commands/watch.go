package commands

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docsplit/internal/logfields"
	"git.home.luguber.info/inful/docsplit/internal/metrics"
	"git.home.luguber.info/inful/docsplit/internal/splitter"
	"git.home.luguber.info/inful/docsplit/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	SourceFlags `embed:""`
	RunFlags    `embed:""`

	Debounce    time.Duration `help:"Quiet window after the last change before splitting again (overrides watch.debounce)"`
	Every       time.Duration `help:"Also split on this interval, e.g. 1h (overrides watch.every)"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address, e.g. :9464 (overrides watch.metrics_addr)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, w.SourceFlags, &w.RunFlags)
	if err != nil {
		return err
	}
	if w.Debounce > 0 {
		cfg.Watch.Debounce = w.Debounce
	}
	if w.Every > 0 {
		cfg.Watch.Every = w.Every
	}
	if w.MetricsAddr != "" {
		cfg.Watch.MetricsAddr = w.MetricsAddr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg, rec := newMetrics(cfg.MetricsFile != "" || cfg.Watch.MetricsAddr != "")
	svc := splitter.NewService(cfg, rec)

	watcher := watch.New(svc, watch.Options{
		Dir:      cfg.Input,
		Ignore:   []string{svc.Output().Root()},
		Debounce: cfg.Watch.Debounce,
		Every:    cfg.Watch.Every,
		OnRun: func(report *splitter.Report, err error) {
			writeMetrics(cfg.MetricsFile, reg)
			switch {
			case stderrors.Is(err, splitter.ErrNoDocument):
				slog.Warn("Waiting for a source document", logfields.Source(cfg.Input))
			case err != nil:
				slog.Error("Split failed; waiting for the next change", logfields.Error(err))
			default:
				printReport(report)
			}
		},
	})

	if cfg.Watch.MetricsAddr != "" {
		metrics.RegisterRuntimeCollectors(reg)
		go func() {
			if err := metrics.Serve(ctx, cfg.Watch.MetricsAddr, reg); err != nil {
				slog.Error("Metrics server failed", logfields.Error(err))
			}
		}()
	}

	slog.Info("Watch mode started, waiting for shutdown signal...")
	return watcher.Run(ctx)
}
