package docmodel

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// HeadingMarker starts every structural line of the source document.
const HeadingMarker = '#'

// SourceExt is the extension of the exported document and of derived filenames.
const SourceExt = ".md"

const untitled = "untitled"

// invalidPathChars are rejected by at least one common filesystem.
const invalidPathChars = `<>:"/\|?*`

// titleBlacklist is punctuation dropped from titles on top of invalidPathChars.
const titleBlacklist = "'#‘’“”"

func isInvalidPathRune(r rune) bool {
	return r < 0x20 || r == 0x7f || strings.ContainsRune(invalidPathChars, r)
}

// SanitizeTitle turns a heading line (or any text) into a Block title: leading
// heading markers and surrounding whitespace are stripped, invalid filename
// characters and quotes, colons and hashes are removed, and inner whitespace
// runs collapse to one space. SanitizeTitle is idempotent.
func SanitizeTitle(s string) string {
	s = norm.NFC.String(s)
	s = strings.TrimLeft(strings.TrimSpace(s), string(HeadingMarker))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isInvalidPathRune(r) || strings.ContainsRune(titleBlacklist, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Filename derives the file name of a Block from its title with the default
// source extension.
func Filename(title string) string {
	return FilenameWithExt(title, SourceExt)
}

// FilenameWithExt derives a file name from title: whitespace and invalid path
// characters become underscores, underscore runs collapse to one, and ext is
// appended. An empty result falls back to "untitled".
func FilenameWithExt(title, ext string) string {
	title = norm.NFC.String(title)

	var b strings.Builder
	b.Grow(len(title) + len(ext))
	lastUnderscore := false
	for _, r := range title {
		if unicode.IsSpace(r) || isInvalidPathRune(r) {
			r = '_'
		}
		if r == '_' {
			if lastUnderscore {
				continue
			}
			lastUnderscore = true
		} else {
			lastUnderscore = false
		}
		b.WriteRune(r)
	}

	stem := b.String()
	if stem == "" || stem == "_" {
		stem = untitled
	}
	return stem + ext
}

// FolderName derives a filesystem-safe directory name from a title: runs of
// characters that are neither letters nor digits collapse to one space and the
// result is trimmed.
func FolderName(title string) string {
	title = norm.NFC.String(title)

	var b strings.Builder
	b.Grow(len(title))
	pendingSpace := false
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}

	if b.Len() == 0 {
		return untitled
	}
	return b.String()
}

// headingLevel returns the number of leading heading markers of line.
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == HeadingMarker {
		n++
	}
	return n
}
