package markdown

import "strings"

// Options controls link extraction.
type Options struct {
	// SkipAutoLinks drops <scheme://...> autolinks from the result.
	SkipAutoLinks bool
}

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
	LinkKindHTML                LinkKind = "html"
	LinkKindHTMLImage           LinkKind = "html_image"
)

// IsImage reports whether the link embeds an image.
func (k LinkKind) IsImage() bool {
	return k == LinkKindImage || k == LinkKindHTMLImage
}

type Link struct {
	Kind        LinkKind
	Destination string
	// Line is the 1-based body line of the enclosing block; 0 when unknown.
	Line int
}

// IsExternal reports whether the destination leaves the site: any URL with a
// scheme, protocol-relative URLs, and mailto targets.
func (l Link) IsExternal() bool {
	d := strings.ToLower(l.Destination)
	return strings.Contains(d, "://") || strings.HasPrefix(d, "//") ||
		strings.HasPrefix(d, "mailto:") || strings.HasPrefix(d, "data:")
}

// Path returns the destination without its fragment and query.
func (l Link) Path() string {
	d := l.Destination
	if i := strings.IndexAny(d, "#?"); i >= 0 {
		d = d[:i]
	}
	return d
}
