// Package watch reruns a split whenever the input folder changes, and
// optionally on a fixed interval.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docsplit/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplit/internal/logfields"
	"git.home.luguber.info/inful/docsplit/internal/splitter"
)

// Trigger reasons.
const (
	ReasonStartup  = "startup"
	ReasonChange   = "change"
	ReasonSchedule = "schedule"
)

// DefaultDebounce is used when Options.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// Runner performs one split.
type Runner interface {
	Run(ctx context.Context) (*splitter.Report, error)
}

// Options configures a Watcher.
type Options struct {
	// Dir is the input folder; it is watched non-recursively.
	Dir string
	// Ignore lists paths whose events never trigger a run, e.g. an output
	// folder placed inside Dir.
	Ignore []string
	// Debounce is the quiet window after the last change before a run starts.
	Debounce time.Duration
	// Every schedules additional runs; zero disables them.
	Every time.Duration
	// OnRun is called after every run.
	OnRun func(report *splitter.Report, err error)
}

// Watcher serializes runs triggered by file events and the schedule.
type Watcher struct {
	runner Runner
	opts   Options

	requests  chan string
	ready     chan struct{}
	readyOnce sync.Once
}

// New returns a Watcher for runner.
func New(runner Runner, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{
		runner:   runner,
		opts:     opts,
		requests: make(chan string, 1),
		ready:    make(chan struct{}),
	}
}

// Ready is closed once Run watches the input folder and finished the
// startup run.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Request asks for a run. Requests made while one is pending are merged.
func (w *Watcher) Request(reason string) {
	select {
	case w.requests <- reason:
	default:
	}
}

// Run performs a startup run and then reruns after changes until ctx is
// done. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.RuntimeError("failed to create file watcher").WithCause(err).Build()
	}
	defer func() { _ = fsw.Close() }()

	dir, err := filepath.Abs(w.opts.Dir)
	if err != nil {
		return errors.ConfigError("failed to resolve input folder").WithContext("input", w.opts.Dir).WithCause(err).Build()
	}
	if err := fsw.Add(dir); err != nil {
		return errors.FileSystemError("failed to watch input folder").WithContext("input", dir).WithCause(err).Build()
	}

	if w.opts.Every > 0 {
		stop, err := w.schedule()
		if err != nil {
			return err
		}
		defer stop()
	}

	slog.Info("Watching input folder", logfields.Path(dir),
		slog.Duration("debounce", w.opts.Debounce),
		slog.Duration("every", w.opts.Every))

	w.run(ctx, ReasonStartup)
	w.readyOnce.Do(func() { close(w.ready) })

	return w.loop(ctx, fsw)
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) error {
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	var (
		pending bool
		reason  string
	)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Input changed", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			w.Request(ReasonChange)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", logfields.Error(err))

		case r := <-w.requests:
			if !pending || r == ReasonChange {
				reason = r
			}
			pending = true
			debounce.Reset(w.opts.Debounce)

		case <-debounce.C:
			if pending {
				pending = false
				w.run(ctx, reason)
			}
		}
	}
}

func (w *Watcher) run(ctx context.Context, reason string) {
	if ctx.Err() != nil {
		return
	}
	slog.Info("Running split", slog.String("reason", reason))
	report, err := w.runner.Run(ctx)
	if w.opts.OnRun != nil {
		w.opts.OnRun(report, err)
	}
}

// relevant filters out attribute-only changes, hidden and editor temp files
// and ignored paths.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return false
	}
	name := filepath.Clean(event.Name)
	for _, ignored := range w.opts.Ignore {
		abs, err := filepath.Abs(ignored)
		if err != nil {
			continue
		}
		if name == abs || strings.HasPrefix(name, abs+string(filepath.Separator)) {
			return false
		}
	}
	return true
}

// schedule starts the periodic job. Runs that are still in flight when the
// next tick is due are rescheduled rather than queued.
func (w *Watcher) schedule() (func(), error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.RuntimeError("failed to create scheduler").WithCause(err).Build()
	}

	_, err = s.NewJob(
		gocron.DurationJob(w.opts.Every),
		gocron.NewTask(w.Request, ReasonSchedule),
		gocron.WithName("periodic-split"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, errors.RuntimeError(fmt.Sprintf("failed to schedule periodic split every %s", w.opts.Every)).
			WithCause(err).
			Build()
	}

	s.Start()
	return func() {
		if err := s.Shutdown(); err != nil {
			slog.Warn("Failed to stop scheduler", logfields.Error(err))
		}
	}, nil
}
