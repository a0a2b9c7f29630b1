// Package docmodel holds the document tree built from a flat Markdown export.
//
// Every heading line of the source becomes a Block. Blocks live in a Tree
// arena: a parent owns its children through an ordered list of BlockIDs and
// every back-reference (parent, previous, next) is an ID into the same arena,
// so the model never forms pointer cycles.
package docmodel

import (
	"fmt"
	"strings"
)

// BlockID identifies a Block inside its Tree.
type BlockID int

const (
	// RootID is the synthetic root created before parsing starts.
	RootID BlockID = 0
	// NoBlock marks an absent reference (the root's parent, an unchained sibling).
	NoBlock BlockID = -1
)

// IndexFilename is the reserved filename of the root Block.
const IndexFilename = "index.md"

// Block is one heading of the source document plus the raw lines that follow it.
type Block struct {
	ID BlockID
	// Title is the sanitized heading text.
	Title string
	// Level is the heading depth; 0 for the root.
	Level int
	// Index is the 1-based order of the heading in the source; 0 for the root.
	Index int
	// Filename is derived from Title, except for the root which uses IndexFilename.
	Filename string
	// Text holds the lines between this heading and the next one, verbatim.
	Text []string
	// Children are owned by this Block, in document order.
	Children []BlockID
	// Parent is NoBlock only for the root.
	Parent BlockID
	// Line is the 1-based source line of the heading; 0 for the root.
	Line int
}

// IsRoot reports whether b is the synthetic root.
func (b *Block) IsRoot() bool { return b.ID == RootID }

// Heading reconstructs the Markdown heading line. The root has none.
func (b *Block) Heading() string {
	if b.Level == 0 {
		return ""
	}
	return strings.Repeat(string(HeadingMarker), b.Level) + " " + b.Title
}

func (b *Block) String() string {
	return fmt.Sprintf("%d:%q(level=%d)", b.Index, b.Title, b.Level)
}
