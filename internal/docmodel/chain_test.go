package docmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChain_ThreeSiblings(t *testing.T) {
	tree := Build([]string{"# A", "a text", "# B", "## B1", "# C"}, BuildOptions{})
	top := tree.Children(RootID)
	a, b, c := top[0], top[1], top[2]

	chain := Chain(tree)

	next, ok := chain.Next(a.ID)
	require.True(t, ok)
	require.Equal(t, b.ID, next)

	prev, ok := chain.Previous(b.ID)
	require.True(t, ok)
	require.Equal(t, a.ID, prev)

	next, ok = chain.Next(b.ID)
	require.True(t, ok)
	require.Equal(t, c.ID, next)

	_, ok = chain.Next(c.ID)
	require.False(t, ok)

	require.Equal(t, []string{"a text", BreakLine, BreakLine}, chain.RenderedText(a))
	require.Equal(t, []string{BreakLine, BreakLine}, chain.Trailer(b.ID))
	require.Empty(t, chain.Trailer(c.ID))
}

func TestChain_RootHeadsChain(t *testing.T) {
	tree := Build([]string{"# A", "# B"}, BuildOptions{})
	a := tree.Children(RootID)[0]

	chain := Chain(tree)
	prev, ok := chain.Previous(a.ID)
	require.True(t, ok)
	require.Equal(t, RootID, prev)

	next, ok := chain.Next(RootID)
	require.True(t, ok)
	require.Equal(t, a.ID, next)
	require.Empty(t, chain.Trailer(RootID), "root never receives break markers")
}

func TestChain_IsNotRecursive(t *testing.T) {
	tree := Build([]string{"# A", "## A1", "## A2", "# B"}, BuildOptions{})
	a := tree.Children(RootID)[0]
	a1 := tree.Children(a.ID)[0]

	chain := Chain(tree)
	_, ok := chain.Next(a1.ID)
	require.False(t, ok)
	_, ok = chain.Previous(a1.ID)
	require.False(t, ok)
	require.Empty(t, chain.Trailer(a1.ID))
}

func TestChain_DoesNotMutateTree(t *testing.T) {
	tree := Build([]string{"# A", "text", "# B"}, BuildOptions{})
	a := tree.Children(RootID)[0]

	_ = Chain(tree)
	require.Equal(t, []string{"text"}, a.Text)
}

func TestChain_HomeLabelOverride(t *testing.T) {
	single := Build([]string{"# Only"}, BuildOptions{HomeTitle: "Manual"})
	require.Equal(t, "Manual", Chain(single).DisplayTitle(single.Root()))

	multi := Build([]string{"# A", "# B"}, BuildOptions{HomeTitle: "Manual"})
	chain := Chain(multi)
	require.Equal(t, HomeLabel, chain.DisplayTitle(multi.Root()))
	require.Equal(t, "Manual", multi.Root().Title, "the override is a view, not a mutation")
	require.Equal(t, "A", chain.DisplayTitle(multi.Children(RootID)[0]))
}
