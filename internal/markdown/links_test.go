package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks_InlineLink(t *testing.T) {
	links, err := ExtractLinks([]byte("See [Sub](Sub.html) for details."), Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "Sub.html", links[0].Destination)
	require.Equal(t, 1, links[0].Line)
}

func TestExtractLinks_ImageLink(t *testing.T) {
	links, err := ExtractLinks([]byte("## Sub\n\n![](../media/pic.png)\n"), Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindImage, links[0].Kind)
	require.Equal(t, "../media/pic.png", links[0].Destination)
	require.Equal(t, 3, links[0].Line)
}

func TestExtractLinks_AutoLink(t *testing.T) {
	src := []byte("<https://example.com/path>")

	links, err := ExtractLinks(src, Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindAuto, links[0].Kind)
	require.Equal(t, "https://example.com/path", links[0].Destination)

	links, err = ExtractLinks(src, Options{SkipAutoLinks: true})
	require.NoError(t, err)
	require.Empty(t, links)
}

func TestExtractLinks_ReferenceLinkUsageAndDefinition(t *testing.T) {
	src := []byte("See [Sub][ref].\n\n[ref]: Sub.html\n")
	links, err := ExtractLinks(src, Options{})
	require.NoError(t, err)

	require.Len(t, links, 2)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "Sub.html", links[0].Destination)
	require.Equal(t, LinkKindReferenceDefinition, links[1].Kind)
	require.Equal(t, "Sub.html", links[1].Destination)
}

func TestExtractLinks_SkipsInlineCodeAndCodeBlocks(t *testing.T) {
	src := []byte("" +
		"Inline code: `[Link](./ignored-inline.html)`\n" +
		"\n" +
		"```\n" +
		"[Link](./ignored-fence.html)\n" +
		"```\n" +
		"\n" +
		"Real: [OK](./real.html)\n")

	links, err := ExtractLinks(src, Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, "./real.html", links[0].Destination)
	require.Equal(t, 7, links[0].Line)
}

func TestExtractLinks_NavigationLinksWithBreaks(t *testing.T) {
	src := []byte("# Intro\nHello\n[Sub](Sub.html) <br/><br/>\n[Other](Other.html) <br/><br/>\n")
	links, err := ExtractLinks(src, Options{})
	require.NoError(t, err)
	require.Len(t, links, 2)
	require.Equal(t, "Sub.html", links[0].Destination)
	require.Equal(t, "Other.html", links[1].Destination)
}

func TestLink_PathAndExternal(t *testing.T) {
	require.Equal(t, "Sub.html", Link{Destination: "Sub.html#top"}.Path())
	require.Equal(t, "a.html", Link{Destination: "a.html?x=1"}.Path())
	require.True(t, Link{Destination: "https://example.com"}.IsExternal())
	require.True(t, Link{Destination: "mailto:a@b.c"}.IsExternal())
	require.False(t, Link{Destination: "../media/pic.png"}.IsExternal())
}

func TestExtractLinks_RawHTML(t *testing.T) {
	src := []byte("Intro text\n\n<img src=\"../media/logo.png\" alt=\"Logo\">\n\nSee <a href=\"Sub.html\">Sub</a> <br/>\n")
	links, err := ExtractLinks(src, Options{})
	require.NoError(t, err)
	require.Len(t, links, 2)

	require.Equal(t, LinkKindHTMLImage, links[0].Kind)
	require.True(t, links[0].Kind.IsImage())
	require.Equal(t, "../media/logo.png", links[0].Destination)
	require.Equal(t, 3, links[0].Line)

	require.Equal(t, LinkKindHTML, links[1].Kind)
	require.Equal(t, "Sub.html", links[1].Destination)
	require.Equal(t, 5, links[1].Line)
}
