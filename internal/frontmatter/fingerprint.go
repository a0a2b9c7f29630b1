package frontmatter

import (
	"strings"

	"github.com/inful/mdfp"
)

// Fingerprint is the canonical content hash of a page given its raw YAML
// header (without delimiters) and body. A single trailing newline of the
// header is ignored so serialized and read-back headers hash alike.
func Fingerprint(header, body []byte) string {
	return mdfp.CalculateFingerprintFromParts(trimSingleTrailingNewline(string(header)), string(body))
}

// FingerprintContent splits a full page and fingerprints it.
func FingerprintContent(content []byte) (string, error) {
	header, body, _, err := Split(content)
	if err != nil {
		return "", err
	}
	return Fingerprint(header, body), nil
}

func trimSingleTrailingNewline(s string) string {
	if before, ok := strings.CutSuffix(s, "\r\n"); ok {
		return before
	}
	if before, ok := strings.CutSuffix(s, "\n"); ok {
		return before
	}
	return s
}
