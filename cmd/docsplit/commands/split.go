package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docsplit/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplit/internal/linkcheck"
	"git.home.luguber.info/inful/docsplit/internal/splitter"
)

// SplitCmd implements the 'split' command.
type SplitCmd struct {
	SourceFlags `embed:""`
	RunFlags    `embed:""`

	Strict bool `help:"Fail when the link check reports errors"`
}

func (s *SplitCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, s.SourceFlags, &s.RunFlags)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg, rec := newMetrics(cfg.MetricsFile != "")
	report, err := splitter.NewService(cfg, rec).Run(ctx)
	writeMetrics(cfg.MetricsFile, reg)

	if stderrors.Is(err, splitter.ErrNoDocument) {
		fmt.Printf("No %s document found in %s; nothing to do\n", cfg.SourceExt, cfg.Input)
		return nil
	}
	printReport(report)
	if err != nil {
		return err
	}

	if s.Strict {
		if _, n := linkcheck.Count(report.Issues); n > 0 {
			return errors.BuildError(fmt.Sprintf("link check found %d errors", n)).
				WithContext("output", report.Output).
				Build()
		}
	}
	return nil
}

// printReport writes the user-facing run summary to stdout.
func printReport(r *splitter.Report) {
	if r == nil || r.Emit == nil {
		return
	}
	fmt.Printf("Split %s into %d pages in %s\n", r.Document, r.Emit.Files(), r.Output)
	fmt.Printf("  written: %d, unchanged: %d, pruned: %d, failed: %d, assets: %d\n",
		len(r.Emit.Written), len(r.Emit.Unchanged), len(r.Emit.Pruned), len(r.Emit.Failures), len(r.Assets))
	for _, c := range r.Emit.Collisions {
		fmt.Printf("  collision: %s claimed by %d headings\n", c.Path, len(c.Titles))
	}
	for _, d := range r.Diagnostics {
		fmt.Printf("  %s\n", d)
	}
	if len(r.Issues) > 0 {
		warnings, errs := linkcheck.Count(r.Issues)
		fmt.Printf("  link check: %d errors, %d warnings\n", errs, warnings)
		for _, issue := range r.Issues {
			fmt.Printf("    %s\n", issue)
		}
	}
	fmt.Printf("  run %s finished in %s (%s)\n", r.RunID, r.Duration.Round(time.Millisecond), r.Outcome)
}
