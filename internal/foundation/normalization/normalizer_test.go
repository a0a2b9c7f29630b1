package normalization

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type level string

func newLevels() *Normalizer[level] {
	return NewNormalizer(map[string]level{
		"debug": "debug",
		"Info":  "info",
	}, "info")
}

func TestNormalize(t *testing.T) {
	n := newLevels()

	require.Equal(t, level("debug"), n.Normalize("  DEBUG "))
	require.Equal(t, level("info"), n.Normalize("info"))
	require.Equal(t, level("info"), n.Normalize("verbose"))
}

func TestNormalizeWithError(t *testing.T) {
	n := newLevels()

	v, err := n.NormalizeWithError("Debug")
	require.NoError(t, err)
	require.Equal(t, level("debug"), v)

	v, err = n.NormalizeWithError("")
	require.NoError(t, err)
	require.Equal(t, level("info"), v)

	_, err = n.NormalizeWithError("trace")
	require.ErrorContains(t, err, "valid options: [debug info]")
}

func TestValidKeys_ReturnsCopy(t *testing.T) {
	n := newLevels()
	keys := n.ValidKeys()
	keys[0] = "mutated"
	require.Equal(t, []string{"debug", "info"}, n.ValidKeys())
}
