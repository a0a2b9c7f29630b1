package splitter

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsplit/internal/config"
	"git.home.luguber.info/inful/docsplit/internal/content"
	"git.home.luguber.info/inful/docsplit/internal/docmodel"
	"git.home.luguber.info/inful/docsplit/internal/emitter"
	"git.home.luguber.info/inful/docsplit/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplit/internal/linkcheck"
	"git.home.luguber.info/inful/docsplit/internal/logfields"
	"git.home.luguber.info/inful/docsplit/internal/metrics"
	"git.home.luguber.info/inful/docsplit/internal/workspace"
)

// Stage names used for metrics and logs.
const (
	StageLocate    = "locate"
	StagePrepare   = "prepare"
	StageAssets    = "assets"
	StageBuild     = "build"
	StageLinkcheck = "linkcheck"
)

// Report summarizes one run.
type Report struct {
	RunID    string
	Input    string
	Document string
	Output   string
	Outcome  metrics.RunOutcome
	Duration time.Duration

	Blocks      int
	Diagnostics []docmodel.Diagnostic
	// Assets are the copied files, slash-separated below the output root.
	Assets      []string
	AssetErrors error
	Emit        *emitter.Result
	Issues      []linkcheck.Issue
}

// Service runs the split pipeline for one configuration. A Service may run
// many times (watch mode); runs are serialized by the emitter.
type Service struct {
	cfg      *config.Config
	recorder metrics.Recorder
	output   *workspace.Output
	emitter  *emitter.Emitter
}

// NewService wires a Service for cfg. rec may be nil.
func NewService(cfg *config.Config, rec metrics.Recorder) *Service {
	rec = metrics.OrNoop(rec)
	out := workspace.NewOutput(cfg.ResolveOutput(), cfg.MediaDir).Protect(cfg.Input)

	rewriter := content.NewRewriter(content.Options{
		SourceExt: cfg.SourceExt,
		PageExt:   cfg.PageExt,
		MediaExt:  cfg.MediaExt,
		Artifacts: cfg.ArtifactRules(),
	})

	return &Service{
		cfg:      cfg,
		recorder: rec,
		output:   out,
		emitter: emitter.New(emitter.Options{
			OutputDir:     out.Root(),
			MediaDir:      out.MediaDir(),
			SourceExt:     cfg.SourceExt,
			PageExt:       cfg.PageExt,
			Layout:        cfg.Layout,
			HomeLayout:    cfg.HomeLayout,
			NavLinkSuffix: cfg.NavLinkSuffix,
			Concurrency:   cfg.Concurrency,
			Rewriter:      rewriter,
			Recorder:      rec,
		}),
	}
}

// Output returns the output area the service writes to.
func (s *Service) Output() *workspace.Output { return s.output }

// Run locates the source document, prepares the output folder, copies the
// assets, builds and emits the page tree and finally checks the links of the
// emitted pages. The returned Report is never nil.
//
// A missing source document yields ErrNoDocument. Per-page write failures
// are returned as one filesystem error after every page was attempted.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:  uuid.NewString(),
		Input:  s.cfg.Input,
		Output: s.output.Root(),
	}
	log := slog.With(logfields.RunID(report.RunID))
	log.Info("Starting split", logfields.Source(s.cfg.Input), logfields.Path(report.Output))

	err := s.run(ctx, log, report)
	report.Duration = time.Since(start)
	report.Outcome = outcome(report, err)

	s.recorder.ObserveRunDuration(report.Duration)
	s.recorder.IncRunOutcome(report.Outcome)

	attrs := []any{
		slog.String("outcome", string(report.Outcome)),
		logfields.DurationMS(float64(report.Duration.Microseconds()) / 1000),
		logfields.Count(report.Blocks),
		slog.Int("issues", len(report.Issues)),
	}
	switch report.Outcome {
	case metrics.RunFailed, metrics.RunCanceled:
		log.Error("Split failed", append(attrs, logfields.Error(err))...)
	case metrics.RunSkipped:
		log.Warn("Nothing to split", append(attrs, logfields.Source(s.cfg.Input))...)
	default:
		log.Info("Split completed", attrs...)
	}
	return report, err
}

func (s *Service) run(ctx context.Context, log *slog.Logger, report *Report) error {
	var in *Input
	err := s.stage(StageLocate, func() error {
		var err error
		in, err = Locate(s.cfg.Input, s.cfg.SourceExt, s.cfg.MediaExt)
		return err
	})
	if err != nil {
		return err
	}
	report.Document = in.Document

	if err := ctx.Err(); err != nil {
		return canceled(err)
	}

	err = s.stage(StagePrepare, func() error {
		prepare := s.output.Ensure
		if s.cfg.Clean {
			prepare = s.output.Reset
		}
		if err := prepare(); err != nil {
			return errors.FileSystemError("failed to prepare output folder").
				WithContext("output", s.output.Root()).
				WithCause(err).
				Build()
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = s.stage(StageAssets, func() error {
		report.Assets, report.AssetErrors = s.output.CopyAssets(in.Assets, s.cfg.MediaExt)
		if report.AssetErrors != nil {
			log.Warn("Some assets were not copied", logfields.Error(report.AssetErrors))
		}
		return report.AssetErrors
	})

	var tree *docmodel.Tree
	err = s.stage(StageBuild, func() error {
		var err error
		tree, err = docmodel.BuildFile(in.Document, docmodel.BuildOptions{
			HomeTitle: s.cfg.HomeTitle,
			SourceExt: s.cfg.SourceExt,
		})
		if err != nil {
			return errors.FileSystemError("failed to read source document").
				WithContext("document", in.Document).
				WithCause(err).
				Build()
		}
		return nil
	})
	if err != nil {
		return err
	}

	report.Blocks = tree.Len()
	report.Diagnostics = tree.Diagnostics()
	s.recorder.SetBlocks(tree.Len())
	for _, d := range report.Diagnostics {
		log.Warn("Heading skips a level",
			logfields.Block(d.Title),
			logfields.Index(d.Index),
			logfields.Level(d.Level),
			slog.Int("line", d.Line),
			slog.Int("parent_level", d.ParentLevel))
	}

	res, emitErr := s.emitter.Emit(ctx, tree)
	report.Emit = res
	if emitErr != nil && (res == nil || errors.HasCategory(emitErr, errors.CategoryRuntime)) {
		return emitErr
	}

	if s.cfg.CheckLinks {
		_ = s.stage(StageLinkcheck, func() error {
			return s.checkLinks(log, report)
		})
	}
	return emitErr
}

func (s *Service) checkLinks(log *slog.Logger, report *Report) error {
	pages := make([]linkcheck.Page, 0, len(report.Emit.Pages))
	for _, p := range report.Emit.Pages {
		pages = append(pages, linkcheck.Page{Path: p.Path, Body: p.Body})
	}

	issues, err := linkcheck.Check(pages, report.Assets, linkcheck.Options{
		SourceExt: s.cfg.SourceExt,
		PageExt:   s.cfg.PageExt,
	})
	if err != nil {
		log.Warn("Link check failed", logfields.Error(err))
		return err
	}

	report.Issues = issues
	for _, issue := range issues {
		s.recorder.IncLinkIssue(issue.Rule)
		log.Warn("Unresolved reference",
			logfields.Path(issue.Page),
			slog.Int("line", issue.Line),
			logfields.Rule(issue.Rule),
			slog.String("severity", issue.Severity.String()),
			slog.String("destination", issue.Destination))
	}
	return nil
}

// stage times fn and records its result.
func (s *Service) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.recorder.ObserveStageDuration(name, time.Since(start))

	switch {
	case err == nil:
		s.recorder.IncStageResult(name, metrics.ResultSuccess)
	case errors.HasSeverity(err, errors.SeverityWarning) || name == StageAssets || name == StageLinkcheck:
		s.recorder.IncStageResult(name, metrics.ResultWarning)
	default:
		s.recorder.IncStageResult(name, metrics.ResultFatal)
	}
	return err
}

func canceled(err error) error {
	return errors.RuntimeError("split canceled").WithCause(err).Build()
}

func outcome(report *Report, err error) metrics.RunOutcome {
	switch {
	case stderrors.Is(err, ErrNoDocument):
		return metrics.RunSkipped
	case stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded):
		return metrics.RunCanceled
	case err != nil:
		return metrics.RunFailed
	case len(report.Diagnostics) > 0 || len(report.Issues) > 0 || report.AssetErrors != nil:
		return metrics.RunWarning
	}
	if report.Emit != nil && len(report.Emit.Collisions) > 0 {
		return metrics.RunWarning
	}
	return metrics.RunSuccess
}
