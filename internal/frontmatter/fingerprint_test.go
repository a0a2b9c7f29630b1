package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprint_StableAndContentSensitive(t *testing.T) {
	header := []byte("title: Intro\n")
	body := []byte("# Intro\nHello\n")

	fp := Fingerprint(header, body)
	require.NotEmpty(t, fp)
	require.Equal(t, fp, Fingerprint(header, body))
	require.Equal(t, fp, Fingerprint([]byte("title: Intro"), body), "trailing newline of the header is ignored")
	require.NotEqual(t, fp, Fingerprint(header, []byte("# Intro\nHello!\n")))
	require.NotEqual(t, fp, Fingerprint([]byte("title: Other\n"), body))
}

func TestFingerprintContent_MatchesRenderedParts(t *testing.T) {
	fields := Fields{{"title", "Intro"}, {"nav_order", 1}}
	body := []byte("# Intro\nHello\n")

	page, err := Render(fields, body, DefaultStyle)
	require.NoError(t, err)
	header, err := SerializeYAML(fields, DefaultStyle)
	require.NoError(t, err)

	fp, err := FingerprintContent(page)
	require.NoError(t, err)
	require.Equal(t, Fingerprint(header, body), fp)
}

func TestFingerprintContent_UnclosedHeader(t *testing.T) {
	_, err := FingerprintContent([]byte("---\ntitle: Intro\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}
