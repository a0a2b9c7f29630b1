package docmodel

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// DefaultHomeTitle is the title of the synthetic root.
const DefaultHomeTitle = "Home"

// BuildOptions tunes tree construction.
type BuildOptions struct {
	// HomeTitle is the root's title. Defaults to DefaultHomeTitle.
	HomeTitle string
	// SourceExt is appended to derived filenames. Defaults to SourceExt.
	SourceExt string
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.HomeTitle == "" {
		o.HomeTitle = DefaultHomeTitle
	}
	if o.SourceExt == "" {
		o.SourceExt = SourceExt
	}
	return o
}

// Diagnostic records a heading whose level skipped past its expected parent
// level, e.g. "#" directly followed by "###".
type Diagnostic struct {
	Line        int
	Index       int
	Title       string
	Level       int
	ParentLevel int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: heading %q at level %d attached to level %d ancestor (expected level %d)",
		d.Line, d.Title, d.Level, d.ParentLevel, d.Level-1)
}

// ancestry is the chain of open Blocks from the root down to the most recently
// created one. Each heading derives a new ancestry from the previous value.
type ancestry []*Block

// descend computes where a heading of the given level attaches: its parent is
// the deepest open Block with a smaller level. The returned ancestry ends at
// that parent; the caller appends the new Block.
func (a ancestry) descend(level int) (parent *Block, skipped bool, next ancestry) {
	keep := len(a)
	for keep > 1 && a[keep-1].Level >= level {
		keep--
	}
	next = slices.Clip(a[:keep])
	parent = next[len(next)-1]
	return parent, parent.Level < level-1, next
}

// innermost is the Block that receives non-heading lines.
func (a ancestry) innermost() *Block { return a[len(a)-1] }

// Build constructs the document tree from the raw source lines.
//
// A line starting with the heading marker opens a new Block whose level is the
// number of leading markers; every other line is appended verbatim to the most
// recently opened Block (the root before the first heading). When a heading
// skips levels it attaches to the nearest shallower open ancestor and a
// Diagnostic is recorded.
func Build(lines []string, opts BuildOptions) *Tree {
	opts = opts.withDefaults()
	t := newTree(opts.HomeTitle)
	open := ancestry{t.Root()}

	index := 0
	for i, line := range lines {
		level := headingLevel(line)
		if level == 0 {
			cur := open.innermost()
			cur.Text = append(cur.Text, line)
			continue
		}

		index++
		parent, skipped, next := open.descend(level)
		title := SanitizeTitle(line)
		b := t.add(parent.ID, &Block{
			Title:    title,
			Level:    level,
			Index:    index,
			Filename: FilenameWithExt(title, opts.SourceExt),
			Line:     i + 1,
		})
		if skipped {
			t.diagnostics = append(t.diagnostics, Diagnostic{
				Line:        b.Line,
				Index:       b.Index,
				Title:       b.Title,
				Level:       level,
				ParentLevel: parent.Level,
			})
		}
		open = append(next, b)
	}

	return t
}

// ReadLines splits r into lines, dropping the line terminators (LF or CRLF).
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// BuildFile reads the document at path and builds its tree.
func BuildFile(path string, opts BuildOptions) (*Tree, error) {
	// #nosec G304 -- path comes from input discovery.
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Build(lines, opts), nil
}
