// Package content rewrites the body lines of an exported document so they
// resolve inside the generated site: export artifacts are dropped, image
// references point into the shared media folder and cross-document links use
// the site's page extension.
package content

import (
	"path"
	"regexp"
	"strings"
)

// Rule names reported for the built-in rewrite steps.
const (
	StepReferenceImage = "reference-image"
	StepInlineImage    = "inline-image"
	StepExtension      = "extension"
)

// Options configures a Rewriter.
type Options struct {
	SourceExt string // ".md"
	PageExt   string // ".html"
	MediaExt  string // ".png"
	// Artifacts replace DefaultArtifacts when non-nil.
	Artifacts []Rule
}

func (o Options) withDefaults() Options {
	if o.SourceExt == "" {
		o.SourceExt = ".md"
	}
	if o.PageExt == "" {
		o.PageExt = ".html"
	}
	if o.MediaExt == "" {
		o.MediaExt = ".png"
	}
	if o.Artifacts == nil {
		o.Artifacts = DefaultArtifacts()
	}
	return o
}

// Rewriter applies the line rewriting rules. It is safe for concurrent use.
type Rewriter struct {
	opts  Options
	extRe *regexp.Regexp
}

// NewRewriter builds a Rewriter for opts.
func NewRewriter(opts Options) *Rewriter {
	opts = opts.withDefaults()
	return &Rewriter{
		opts:  opts,
		extRe: regexp.MustCompile(regexp.QuoteMeta(opts.SourceExt) + `\b`),
	}
}

// Options returns the effective options.
func (r *Rewriter) Options() Options { return r.opts }

// Result is a rewritten line plus the names of the rules that changed it.
type Result struct {
	Line    string
	Applied []string
}

// Line rewrites a single body line. mediaRel is the slash-separated path from
// the page's directory to the shared media directory.
func (r *Rewriter) Line(line, mediaRel string) string {
	return r.Apply(line, mediaRel).Line
}

// Apply rewrites line and reports which rules fired. Artifact rules run first
// and end processing; then reference-style images, inline images and finally
// the source-to-page extension swap.
func (r *Rewriter) Apply(line, mediaRel string) Result {
	for _, rule := range r.opts.Artifacts {
		if rule.Match(line) {
			return Result{Line: rule.Replace, Applied: []string{rule.Name}}
		}
	}

	var applied []string
	out := line

	if strings.Contains(out, "![") {
		if next := r.rewriteReferenceImages(out, mediaRel); next != out {
			out = next
			applied = append(applied, StepReferenceImage)
		}
		if next := r.rewriteInlineImages(out, mediaRel); next != out {
			out = next
			applied = append(applied, StepInlineImage)
		}
	}

	if next := r.extRe.ReplaceAllString(out, r.opts.PageExt); next != out {
		out = next
		applied = append(applied, StepExtension)
	}

	return Result{Line: out, Applied: applied}
}

// Lines rewrites every line; the input slice is not modified.
func (r *Rewriter) Lines(lines []string, mediaRel string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = r.Line(l, mediaRel)
	}
	return out
}

// MediaRef is the link target of a normalized image stem as seen from a page.
func (r *Rewriter) MediaRef(mediaRel, stem string) string {
	return path.Join(mediaRel, stem+strings.ToLower(r.opts.MediaExt))
}

func (r *Rewriter) rewriteReferenceImages(line, mediaRel string) string {
	return referenceImageRe.ReplaceAllStringFunc(line, func(m string) string {
		sub := referenceImageRe.FindStringSubmatch(m)
		stem := NormalizeImageName(sub[2], r.opts.MediaExt)
		if stem == "" {
			return m
		}
		return "![" + sub[1] + "](" + r.MediaRef(mediaRel, stem) + ")"
	})
}

func (r *Rewriter) rewriteInlineImages(line, mediaRel string) string {
	images := findInlineImages(line)
	if len(images) == 0 {
		return line
	}
	var b strings.Builder
	last := 0
	for _, img := range images {
		b.WriteString(line[last:img.start])
		b.WriteString(r.inlineImage(line[img.start:img.end], img, mediaRel))
		last = img.end
	}
	b.WriteString(line[last:])
	return b.String()
}

func (r *Rewriter) inlineImage(orig string, img inlineImage, mediaRel string) string {
	dest, title := splitImageTarget(img.inner)
	if dest == "" || isExternal(dest) {
		return orig
	}
	stem := NormalizeImageName(dest, r.opts.MediaExt)
	if stem == "" {
		return orig
	}
	return "![" + img.alt + "](" + r.MediaRef(mediaRel, stem) + title + ")"
}
