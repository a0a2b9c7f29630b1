package commands

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/docsplit/internal/logfields"
	"git.home.luguber.info/inful/docsplit/internal/splitter"
)

// TreeCmd implements the 'tree' command.
type TreeCmd struct {
	SourceFlags `embed:""`
}

func (t *TreeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, t.SourceFlags, nil)
	if err != nil {
		return err
	}

	entries, diags, err := splitter.NewService(cfg, nil).Outline()
	if err != nil {
		return err
	}
	for _, d := range diags {
		slog.Warn("Heading skips a level", logfields.Block(d.Title), slog.Int("line", d.Line))
	}
	return splitter.WriteOutline(os.Stdout, entries)
}
