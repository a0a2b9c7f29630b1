package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeYAML_Empty_ReturnsEmpty(t *testing.T) {
	out, err := SerializeYAML(nil, DefaultStyle)
	require.NoError(t, err)
	require.Equal(t, "", string(out))
}

func TestSerializeYAML_KeepsFieldOrder(t *testing.T) {
	fields := Fields{
		{"title", "Sub"},
		{"layout", "default"},
		{"nav_enabled", true},
		{"nav_order", 3},
		{"parent", "Intro"},
		{"has_toc", false},
	}

	out, err := SerializeYAML(fields, DefaultStyle)
	require.NoError(t, err)
	require.Equal(t,
		"title: Sub\nlayout: default\nnav_enabled: true\nnav_order: 3\nparent: Intro\nhas_toc: false\n",
		string(out))

	again, err := SerializeYAML(fields, DefaultStyle)
	require.NoError(t, err)
	require.Equal(t, out, again)
}

func TestSerializeYAML_QuotesAmbiguousStrings(t *testing.T) {
	out, err := SerializeYAML(Fields{{"title", "2024"}, {"parent", "true"}}, DefaultStyle)
	require.NoError(t, err)
	require.Equal(t, "title: \"2024\"\nparent: \"true\"\n", string(out))
}

func TestSerializeYAML_NewlineStyle_CRLF(t *testing.T) {
	out, err := SerializeYAML(Fields{{"title", "Intro"}}, Style{Newline: "\r\n"})
	require.NoError(t, err)
	require.Equal(t, "title: Intro\r\n", string(out))
}

func TestSerializeYAML_RejectsUnsupportedValues(t *testing.T) {
	_, err := SerializeYAML(Fields{{"tags", []string{"a"}}}, DefaultStyle)
	require.Error(t, err)

	_, err = SerializeYAML(Fields{{"", "x"}}, DefaultStyle)
	require.Error(t, err)
}

func TestFields_GetAndSet(t *testing.T) {
	base := Fields{{"title", "Intro"}, {"layout", "default"}}

	updated := base.Set("layout", "home").Set("has_toc", false)

	v, ok := updated.Get("layout")
	require.True(t, ok)
	require.Equal(t, "home", v)
	require.Len(t, updated, 3)

	v, _ = base.Get("layout")
	require.Equal(t, "default", v, "Set does not modify the receiver")

	_, ok = base.Get("parent")
	require.False(t, ok)
}
