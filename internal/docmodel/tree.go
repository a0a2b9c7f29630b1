package docmodel

// Tree is the arena holding every Block of one source document.
//
// blocks[0] is always the root; a Block's ID is its position in blocks, which
// also equals its Index because headings are appended in document order.
type Tree struct {
	blocks      []*Block
	diagnostics []Diagnostic
}

func newTree(homeTitle string) *Tree {
	root := &Block{
		ID:       RootID,
		Title:    homeTitle,
		Filename: IndexFilename,
		Parent:   NoBlock,
	}
	return &Tree{blocks: []*Block{root}}
}

func (t *Tree) add(parent BlockID, b *Block) *Block {
	b.ID = BlockID(len(t.blocks))
	b.Parent = parent
	t.blocks = append(t.blocks, b)
	p := t.blocks[parent]
	p.Children = append(p.Children, b.ID)
	return b
}

// Root returns the synthetic root Block.
func (t *Tree) Root() *Block { return t.blocks[RootID] }

// Block returns the Block with the given ID, or nil if id is out of range.
func (t *Tree) Block(id BlockID) *Block {
	if id < 0 || int(id) >= len(t.blocks) {
		return nil
	}
	return t.blocks[id]
}

// Len returns the number of Blocks including the root.
func (t *Tree) Len() int { return len(t.blocks) }

// Headings returns every non-root Block in source order.
func (t *Tree) Headings() []*Block {
	out := make([]*Block, len(t.blocks)-1)
	copy(out, t.blocks[1:])
	return out
}

// Parent returns the parent of id. The root has none.
func (t *Tree) Parent(id BlockID) (*Block, bool) {
	b := t.Block(id)
	if b == nil || b.Parent == NoBlock {
		return nil, false
	}
	return t.blocks[b.Parent], true
}

// Children returns the child Blocks of id in document order.
func (t *Tree) Children(id BlockID) []*Block {
	b := t.Block(id)
	if b == nil {
		return nil
	}
	out := make([]*Block, 0, len(b.Children))
	for _, c := range b.Children {
		out = append(out, t.blocks[c])
	}
	return out
}

// TopLevelAncestor walks parent links up to the direct child of the root that
// id descends from. A direct child is its own top-level ancestor; the root
// returns RootID.
func (t *Tree) TopLevelAncestor(id BlockID) BlockID {
	b := t.Block(id)
	if b == nil || b.IsRoot() {
		return RootID
	}
	for b.Parent != RootID {
		b = t.blocks[b.Parent]
	}
	return b.ID
}

// Depth returns the number of parent links between id and the root.
func (t *Tree) Depth(id BlockID) int {
	depth := 0
	for b := t.Block(id); b != nil && b.Parent != NoBlock; b = t.blocks[b.Parent] {
		depth++
	}
	return depth
}

// Walk visits the tree in pre-order, parents before their children. A non-nil
// error from fn stops the walk and is returned.
func (t *Tree) Walk(fn func(b *Block) error) error {
	return t.walk(RootID, fn)
}

func (t *Tree) walk(id BlockID, fn func(b *Block) error) error {
	b := t.blocks[id]
	if err := fn(b); err != nil {
		return err
	}
	for _, c := range b.Children {
		if err := t.walk(c, fn); err != nil {
			return err
		}
	}
	return nil
}

// Diagnostics returns the irregularities recorded while building the tree.
func (t *Tree) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(t.diagnostics))
	copy(out, t.diagnostics)
	return out
}
