// Package frontmatter renders and reads the YAML header of emitted pages.
//
// Pages carry a small, ordered set of keys consumed by the static site
// generator. Fields keeps that order through serialization so regenerated
// output is byte-stable.
package frontmatter

import (
	"bytes"
	"errors"
)

const delimiter = "---"

// Style captures the newline convention of a page.
type Style struct {
	Newline string
}

// DefaultStyle writes LF line endings.
var DefaultStyle = Style{Newline: "\n"}

func (s Style) newline() string {
	if s.Newline == "" {
		return "\n"
	}
	return s.Newline
}

// ErrMissingClosingDelimiter indicates the page started with a front matter
// delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Split separates the raw YAML header from the body of content.
//
// had is false when content does not start with a delimiter line; body is then
// the full input.
func Split(content []byte) (header []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, nil
	}

	closing := []byte(nl + delimiter + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		// A header closed at end of input without a trailing newline.
		if bytes.HasSuffix(rest, []byte(nl+delimiter)) {
			return rest[:len(rest)-len(delimiter)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return rest[:idx+len(nl)], rest[idx+len(closing):], true, nil
}

// Join wraps header in delimiter lines and prepends it to body.
func Join(header, body []byte, style Style) []byte {
	nl := style.newline()
	out := make([]byte, 0, 2*(len(delimiter)+len(nl))+len(header)+len(body))
	out = append(out, delimiter...)
	out = append(out, nl...)
	out = append(out, header...)
	out = append(out, delimiter...)
	out = append(out, nl...)
	return append(out, body...)
}

// Render serializes fields and joins them with body into a full page.
func Render(fields Fields, body []byte, style Style) ([]byte, error) {
	header, err := SerializeYAML(fields, style)
	if err != nil {
		return nil, err
	}
	return Join(header, body, style), nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
