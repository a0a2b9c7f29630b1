package docmodel

// BreakLine is the rendered line-break marker appended between chained sections.
const BreakLine = "<br/>"

// HomeLabel is the displayed title of the root once it heads a sibling chain.
const HomeLabel = "Home"

// ChainView links the root's direct children into a previous/next sequence.
//
// It is computed once from a finished Tree and never mutates it: the break
// markers that separate a section from the next one are exposed through
// Trailer and RenderedText instead of being appended to Block.Text.
type ChainView struct {
	prev        map[BlockID]BlockID
	next        map[BlockID]BlockID
	homeHeaded  bool
	breakMarker []string
}

// Chain builds the sibling chain over the root's direct children. The root
// heads the chain: it is the previous entry of the first child. Every child
// that has a successor gets two break markers as its trailer, and once a chained
// predecessor's own predecessor is the root, the root displays as HomeLabel.
func Chain(t *Tree) ChainView {
	v := ChainView{
		prev:        make(map[BlockID]BlockID),
		next:        make(map[BlockID]BlockID),
		breakMarker: []string{BreakLine, BreakLine},
	}

	previous := RootID
	for _, id := range t.Root().Children {
		v.next[previous] = id
		v.prev[id] = previous
		if grand, ok := v.prev[previous]; ok && grand == RootID {
			v.homeHeaded = true
		}
		previous = id
	}
	return v
}

// Previous returns the chained predecessor of id.
func (v ChainView) Previous(id BlockID) (BlockID, bool) {
	p, ok := v.prev[id]
	return p, ok
}

// Next returns the chained successor of id.
func (v ChainView) Next(id BlockID) (BlockID, bool) {
	n, ok := v.next[id]
	return n, ok
}

// Trailer returns the lines appended after id's text: break markers for a
// chained sibling that precedes another one, nothing otherwise.
func (v ChainView) Trailer(id BlockID) []string {
	if id == RootID {
		return nil
	}
	if _, ok := v.next[id]; !ok {
		return nil
	}
	out := make([]string, len(v.breakMarker))
	copy(out, v.breakMarker)
	return out
}

// RenderedText returns b's text followed by its trailer. The Block is not modified.
func (v ChainView) RenderedText(b *Block) []string {
	trailer := v.Trailer(b.ID)
	out := make([]string, 0, len(b.Text)+len(trailer))
	out = append(out, b.Text...)
	return append(out, trailer...)
}

// DisplayTitle is the title shown for b in navigation metadata.
func (v ChainView) DisplayTitle(b *Block) string {
	if b.IsRoot() && v.homeHeaded {
		return HomeLabel
	}
	return b.Title
}
