package content

import (
	"path"
	"regexp"
	"strings"
)

var (
	// ![alt][ref]; export tools emit the alt text empty.
	referenceImageRe = regexp.MustCompile(`!\[([^\]]*)\]\[([^\]]+)\]`)
	// optional trailing link title inside the parentheses
	imageTitleRe = regexp.MustCompile(`^(.*?)(\s+"[^"]*")?$`)

	nameUnsafeRe     = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	placeholderRunRe = regexp.MustCompile(`_{2,}`)
)

const namePlaceholder = "_"

// NormalizeImageName reduces an image reference to the bare media file stem:
// surrounding whitespace and angle brackets are dropped, any directory prefix
// (including the media folder) is removed, a trailing mediaExt is stripped
// case-insensitively, characters outside [A-Za-z0-9_-] become underscores,
// underscore runs collapse to one and leading/trailing underscores are trimmed.
func NormalizeImageName(name, mediaExt string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(strings.TrimPrefix(name, "<"), ">")
	name = strings.ReplaceAll(name, `\`, "/")
	name = strings.TrimRight(name, "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	if mediaExt != "" && strings.HasSuffix(strings.ToLower(name), strings.ToLower(mediaExt)) {
		name = name[:len(name)-len(mediaExt)]
	}
	name = nameUnsafeRe.ReplaceAllString(name, namePlaceholder)
	name = placeholderRunRe.ReplaceAllString(name, namePlaceholder)
	return strings.Trim(name, namePlaceholder)
}

// MediaFilename is the file name an image is stored under in the media folder.
func MediaFilename(name, mediaExt string) string {
	stem := NormalizeImageName(name, mediaExt)
	if stem == "" {
		return ""
	}
	return stem + strings.ToLower(mediaExt)
}

func isExternal(target string) bool {
	low := strings.ToLower(target)
	return strings.Contains(low, "://") || strings.HasPrefix(low, "data:") || strings.HasPrefix(low, "mailto:")
}

// splitImageTarget separates the destination from an optional quoted title.
func splitImageTarget(inner string) (dest, title string) {
	m := imageTitleRe.FindStringSubmatch(strings.TrimSpace(inner))
	if m == nil {
		return strings.TrimSpace(inner), ""
	}
	return m[1], m[2]
}

// inlineImage is one ![alt](inner) occurrence; start and end are byte offsets
// of the whole image in the line.
type inlineImage struct {
	start, end int
	alt, inner string
}

// findInlineImages locates inline images in line. Destinations may contain
// balanced parentheses, backslash escapes and <...> wrapped text.
func findInlineImages(line string) []inlineImage {
	var found []inlineImage
	for i := 0; i < len(line); {
		j := strings.Index(line[i:], "![")
		if j < 0 {
			break
		}
		start := i + j
		altEnd := strings.IndexByte(line[start+2:], ']')
		if altEnd < 0 {
			break
		}
		altEnd += start + 2
		if altEnd+1 >= len(line) || line[altEnd+1] != '(' {
			i = start + 2
			continue
		}
		closing := closingParen(line, altEnd+2)
		if closing < 0 {
			i = start + 2
			continue
		}
		found = append(found, inlineImage{
			start: start,
			end:   closing + 1,
			alt:   line[start+2 : altEnd],
			inner: line[altEnd+2 : closing],
		})
		i = closing + 1
	}
	return found
}

// closingParen returns the index of the ')' that closes a link destination
// starting at from, or -1 when the parentheses never balance.
func closingParen(s string, from int) int {
	depth := 0
	inAngle := false
	for k := from; k < len(s); k++ {
		c := s[k]
		switch {
		case c == '\\':
			k++
		case inAngle:
			inAngle = c != '>'
		case c == '<' && strings.TrimSpace(s[from:k]) == "":
			inAngle = true
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				return k
			}
			depth--
		}
	}
	return -1
}
