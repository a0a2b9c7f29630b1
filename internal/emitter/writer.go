package emitter

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"git.home.luguber.info/inful/docsplit/internal/docmodel"
	"git.home.luguber.info/inful/docsplit/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplit/internal/frontmatter"
	"git.home.luguber.info/inful/docsplit/internal/logfields"
	"git.home.luguber.info/inful/docsplit/internal/metrics"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// Failure is a page that could not be written or pruned.
type Failure struct {
	Path string
	Err  error
}

// Collision lists Blocks whose pages map to the same output path. The last
// one in pre-order is the one written.
type Collision struct {
	Path   string
	Titles []string
}

// Result summarizes an Emit.
type Result struct {
	Pages      []Page
	Written    []string
	Unchanged  []string
	Pruned     []string
	Failures   []Failure
	Collisions []Collision
}

// Files returns the number of pages present in the output after the run.
func (r *Result) Files() int { return len(r.Written) + len(r.Unchanged) }

// Emit chains and renders t, then writes every page. See Write.
func (e *Emitter) Emit(ctx context.Context, t *docmodel.Tree) (*Result, error) {
	start := time.Now()
	pages, err := e.Plan(t, docmodel.Chain(t))
	e.opts.Recorder.ObserveStageDuration("render", time.Since(start))
	if err != nil {
		e.opts.Recorder.IncStageResult("render", metrics.ResultFatal)
		return nil, errors.InternalError("failed to render pages").WithCause(err).Build()
	}
	e.opts.Recorder.IncStageResult("render", metrics.ResultSuccess)
	return e.Write(ctx, pages)
}

// Write stores pages below the output directory. Pages whose file already
// holds the same fingerprint are left untouched. A page that fails to write is
// logged and the remaining pages are still attempted; the failures are
// returned together as a filesystem error. Pages written by a previous Write
// of this Emitter that are no longer planned are removed.
func (e *Emitter) Write(ctx context.Context, pages []Page) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	res := &Result{Pages: pages, Collisions: Collisions(pages)}
	for _, c := range res.Collisions {
		slog.Warn("Pages share an output path; the last one wins",
			logfields.Path(c.Path), slog.Any("titles", c.Titles))
	}

	targets := lastWins(pages)
	results := runOrdered(ctx, targets, e.opts.Concurrency, e.writePage)

	manifest := make(map[string]string, len(targets))
	var canceled bool
	for i, r := range results {
		p := targets[i]
		switch {
		case isContextErr(r.Err):
			canceled = true
		case r.Err != nil:
			slog.Warn("Failed to write page", logfields.Path(p.Path), logfields.Error(r.Err))
			res.Failures = append(res.Failures, Failure{Path: p.Path, Err: r.Err})
			e.opts.Recorder.IncPageResult(metrics.PageFailed)
		case r.Value == metrics.PageUnchanged:
			res.Unchanged = append(res.Unchanged, p.Path)
			manifest[p.Path] = p.Fingerprint
			e.opts.Recorder.IncPageResult(metrics.PageUnchanged)
		default:
			res.Written = append(res.Written, p.Path)
			manifest[p.Path] = p.Fingerprint
			e.opts.Recorder.IncPageResult(metrics.PageWritten)
		}
	}
	for _, p := range targets {
		for rule, n := range p.Rewrites {
			for range n {
				e.opts.Recorder.IncRewrite(rule)
			}
		}
	}

	if !canceled {
		e.prune(manifest, res)
		e.manifest = manifest
	}

	e.opts.Recorder.ObserveStageDuration("write", time.Since(start))
	slog.Info("Pages emitted",
		logfields.Count(len(res.Written)),
		slog.Int("unchanged", len(res.Unchanged)),
		slog.Int("pruned", len(res.Pruned)),
		slog.Int("failed", len(res.Failures)),
		logfields.Path(e.opts.OutputDir))

	switch {
	case canceled:
		e.opts.Recorder.IncStageResult("write", metrics.ResultCanceled)
		return res, errors.RuntimeError("page writing canceled").WithCause(ctx.Err()).Build()
	case len(res.Failures) > 0:
		e.opts.Recorder.IncStageResult("write", metrics.ResultWarning)
		errs := make([]error, 0, len(res.Failures))
		for _, f := range res.Failures {
			errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Err))
		}
		return res, errors.FileSystemError(fmt.Sprintf("failed to write %d of %d pages", len(res.Failures), len(targets))).
			WithContext("output", e.opts.OutputDir).
			WithCause(stderrors.Join(errs...)).
			Build()
	}
	e.opts.Recorder.IncStageResult("write", metrics.ResultSuccess)
	return res, nil
}

func (e *Emitter) writePage(p Page) (metrics.PageResult, error) {
	target := filepath.Join(e.opts.OutputDir, filepath.FromSlash(p.Path))

	if existing, err := os.ReadFile(target); err == nil {
		if fp, err := frontmatter.FingerprintContent(existing); err == nil && fp == p.Fingerprint {
			slog.Debug("Page unchanged", logfields.Path(p.Path))
			return metrics.PageUnchanged, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return metrics.PageFailed, fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(target, p.Content, filePerm); err != nil {
		return metrics.PageFailed, fmt.Errorf("write page: %w", err)
	}
	slog.Debug("Page written", logfields.Path(p.Path), logfields.Block(p.Title))
	return metrics.PageWritten, nil
}

// prune removes pages recorded by the previous Write that are not part of
// current, then drops section folders left empty.
func (e *Emitter) prune(current map[string]string, res *Result) {
	stale := make([]string, 0)
	for p := range e.manifest {
		if _, ok := current[p]; !ok {
			stale = append(stale, p)
		}
	}
	sort.Strings(stale)

	for _, p := range stale {
		target := filepath.Join(e.opts.OutputDir, filepath.FromSlash(p))
		if err := os.Remove(target); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			slog.Warn("Failed to prune page", logfields.Path(p), logfields.Error(err))
			res.Failures = append(res.Failures, Failure{Path: p, Err: err})
			continue
		}
		res.Pruned = append(res.Pruned, p)
		e.opts.Recorder.IncPageResult(metrics.PagePruned)
		if dir := filepath.Dir(target); dir != filepath.Clean(e.opts.OutputDir) {
			// Only succeeds once the section folder is empty.
			_ = os.Remove(dir)
		}
	}
}

func isContextErr(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}

// Collisions reports output paths claimed by more than one page.
func Collisions(pages []Page) []Collision {
	byPath := make(map[string][]string)
	order := make([]string, 0)
	for _, p := range pages {
		if _, seen := byPath[p.Path]; !seen {
			order = append(order, p.Path)
		}
		byPath[p.Path] = append(byPath[p.Path], p.Title)
	}

	var out []Collision
	for _, path := range order {
		if titles := byPath[path]; len(titles) > 1 {
			out = append(out, Collision{Path: path, Titles: titles})
		}
	}
	return out
}

// lastWins keeps, for every output path, only the last page in pre-order,
// preserving the order of the kept pages.
func lastWins(pages []Page) []Page {
	last := make(map[string]int, len(pages))
	for i, p := range pages {
		last[p.Path] = i
	}
	out := make([]Page, 0, len(last))
	for i, p := range pages {
		if last[p.Path] == i {
			out = append(out, p)
		}
	}
	return out
}
