package workspace

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsplit/internal/content"
	"git.home.luguber.info/inful/docsplit/internal/logfields"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// Output manages the output directory and its shared media folder.
type Output struct {
	root      string
	mediaDir  string
	protected []string
}

// NewOutput returns an Output rooted at root. mediaDir is the name of the
// shared media folder directly below root.
func NewOutput(root, mediaDir string) *Output {
	if mediaDir == "" {
		mediaDir = "media"
	}
	return &Output{root: filepath.Clean(root), mediaDir: mediaDir}
}

// Root returns the output root directory.
func (o *Output) Root() string { return o.root }

// MediaDir returns the media folder name relative to the root.
func (o *Output) MediaDir() string { return o.mediaDir }

// MediaPath returns the absolute path of the media folder.
func (o *Output) MediaPath() string { return filepath.Join(o.root, o.mediaDir) }

// Protect registers paths that Reset must never delete, neither directly nor
// as part of the output root. It returns o.
func (o *Output) Protect(paths ...string) *Output {
	for _, p := range paths {
		if p != "" {
			o.protected = append(o.protected, p)
		}
	}
	return o
}

// Reset deletes the output root and recreates it together with the media folder.
func (o *Output) Reset() error {
	if o.root == "" || o.root == "." || o.root == string(filepath.Separator) {
		return fmt.Errorf("refusing to reset output root %q", o.root)
	}
	for _, p := range o.protected {
		if Contains(o.root, p) {
			return fmt.Errorf("refusing to reset output root %q: it contains %q", o.root, p)
		}
	}
	if err := os.RemoveAll(o.root); err != nil {
		return fmt.Errorf("failed to remove output directory: %w", err)
	}
	slog.Info("Reset output directory", logfields.Path(o.root))
	return o.Ensure()
}

// Contains reports whether target is dir itself or lies below it, comparing
// cleaned absolute paths.
func Contains(dir, target string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absTarget)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Ensure creates the output root and the media folder when missing.
func (o *Output) Ensure() error {
	if err := os.MkdirAll(o.MediaPath(), dirPerm); err != nil {
		return fmt.Errorf("failed to create output directories: %w", err)
	}
	return nil
}

// Asset is a file next to the source document that is copied to the output.
type Asset struct {
	// Source is the path of the file in the input folder.
	Source string
	// Media marks images; they go to the media folder under a normalized name.
	Media bool
}

// CopyAssets copies every asset into the output area. Media assets are renamed
// with content.MediaFilename so rewritten image links resolve; other files
// keep their name and land in the output root. It returns the slash-separated
// output paths of the copied files relative to the root. A failing copy is
// logged and the remaining assets are still copied; all failures are returned
// joined.
func (o *Output) CopyAssets(assets []Asset, mediaExt string) ([]string, error) {
	copied := make([]string, 0, len(assets))
	var errs []error
	for _, a := range assets {
		rel := o.assetPath(a, mediaExt)
		if rel == "" {
			slog.Warn("Skipping asset with unusable name", logfields.Path(a.Source))
			continue
		}
		if err := CopyFile(a.Source, filepath.Join(o.root, filepath.FromSlash(rel))); err != nil {
			slog.Warn("Failed to copy asset", logfields.Path(a.Source), logfields.Error(err))
			errs = append(errs, err)
			continue
		}
		slog.Debug("Copied asset", logfields.Source(a.Source), logfields.Path(rel))
		copied = append(copied, rel)
	}
	return copied, errors.Join(errs...)
}

func (o *Output) assetPath(a Asset, mediaExt string) string {
	base := filepath.Base(a.Source)
	if !a.Media {
		return base
	}
	name := content.MediaFilename(base, mediaExt)
	if name == "" {
		return ""
	}
	return path.Join(o.mediaDir, name)
}

// IsMedia reports whether name carries the media extension, case-insensitively.
func IsMedia(name, mediaExt string) bool {
	return mediaExt != "" && strings.HasSuffix(strings.ToLower(name), strings.ToLower(mediaExt))
}

// CopyFile copies src to dst, creating dst's directory.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return fmt.Errorf("create directory for %s: %w", dst, err)
	}
	out, err := os.OpenFile(filepath.Clean(dst), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return nil
}
