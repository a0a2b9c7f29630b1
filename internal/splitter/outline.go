package splitter

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/docsplit/internal/docmodel"
	"git.home.luguber.info/inful/docsplit/internal/emitter"
)

// OutlineEntry describes where one Block would be written.
type OutlineEntry struct {
	Index    int
	Level    int
	Title    string
	Path     string
	Previous string
	Next     string
}

// Outline locates and parses the source document without writing anything.
func (s *Service) Outline() ([]OutlineEntry, []docmodel.Diagnostic, error) {
	in, err := Locate(s.cfg.Input, s.cfg.SourceExt, s.cfg.MediaExt)
	if err != nil {
		return nil, nil, err
	}
	tree, err := docmodel.BuildFile(in.Document, docmodel.BuildOptions{
		HomeTitle: s.cfg.HomeTitle,
		SourceExt: s.cfg.SourceExt,
	})
	if err != nil {
		return nil, nil, err
	}
	return TreeOutline(tree), tree.Diagnostics(), nil
}

// TreeOutline lists every Block of t in pre-order together with its output
// path and chain neighbours.
func TreeOutline(t *docmodel.Tree) []OutlineEntry {
	chain := docmodel.Chain(t)
	title := func(id docmodel.BlockID, ok bool) string {
		if !ok {
			return ""
		}
		return chain.DisplayTitle(t.Block(id))
	}

	entries := make([]OutlineEntry, 0, t.Len())
	_ = t.Walk(func(b *docmodel.Block) error {
		e := OutlineEntry{
			Index: b.Index,
			Level: b.Level,
			Title: chain.DisplayTitle(b),
			Path:  emitter.PagePath(t, b.ID),
		}
		e.Previous = title(chain.Previous(b.ID))
		e.Next = title(chain.Next(b.ID))
		entries = append(entries, e)
		return nil
	})
	return entries
}

// WriteOutline prints entries as an indented listing.
func WriteOutline(w io.Writer, entries []OutlineEntry) error {
	for _, e := range entries {
		line := fmt.Sprintf("%3d  %-40s %s", e.Index, strings.Repeat("  ", e.Level)+e.Title, e.Path)
		if e.Previous != "" || e.Next != "" {
			line += fmt.Sprintf("  [prev: %s, next: %s]", orDash(e.Previous), orDash(e.Next))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
