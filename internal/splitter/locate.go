package splitter

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docsplit/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplit/internal/logfields"
	"git.home.luguber.info/inful/docsplit/internal/workspace"
)

// ErrNoDocument is returned when the input folder holds no source document.
// Callers treat it as "nothing to do".
var ErrNoDocument = errors.NotFoundError("no source document found").Warning().Build()

// Input is the content of the input folder, classified.
type Input struct {
	Dir string
	// Document is the source document that gets split.
	Document string
	// Ignored lists further source documents; only the first one is split.
	Ignored []string
	// Assets are copied to the output unchanged.
	Assets []workspace.Asset
}

// Locate scans dir (not recursively). The first file with sourceExt in
// lexical order is the document; files with mediaExt are media assets and
// every other regular file is a pass-through asset. Hidden files and
// folders are skipped.
func Locate(dir, sourceExt, mediaExt string) (*Input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("input folder does not exist").
				WithContext("input", dir).
				WithCause(err).
				Build()
		}
		return nil, errors.FileSystemError("failed to read input folder").
			WithContext("input", dir).
			WithCause(err).
			Build()
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !e.Type().IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	in := &Input{Dir: dir}
	for _, name := range names {
		p := filepath.Join(dir, name)
		switch {
		case strings.EqualFold(filepath.Ext(name), sourceExt):
			if in.Document == "" {
				in.Document = p
				continue
			}
			in.Ignored = append(in.Ignored, p)
			slog.Warn("Ignoring additional source document", logfields.Path(p), logfields.Source(in.Document))
		case workspace.IsMedia(name, mediaExt):
			in.Assets = append(in.Assets, workspace.Asset{Source: p, Media: true})
		default:
			in.Assets = append(in.Assets, workspace.Asset{Source: p})
		}
	}

	if in.Document == "" {
		return in, ErrNoDocument.WithContext("input", dir)
	}
	return in, nil
}
