// Package linkcheck verifies that the pages of a split document only reference
// targets that exist in the generated output: images must resolve to a copied
// media asset and page links to an emitted page.
package linkcheck

import (
	"fmt"
	"path"
	"strings"

	"git.home.luguber.info/inful/docsplit/internal/markdown"
)

// Severity indicates how serious an issue is.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Rule identifiers.
const (
	RuleMissingMedia    = "missing-media"
	RuleBrokenLink      = "broken-link"
	RuleSourceExtension = "source-extension"
)

// Page is an emitted page as seen by the checker.
type Page struct {
	// Path is the slash-separated path below the output root, with the
	// source extension (e.g. "Intro/Sub.md").
	Path string
	// Body is the page content after the front matter.
	Body []byte
}

// Issue is a single unresolved reference.
type Issue struct {
	Page        string
	Line        int
	Rule        string
	Severity    Severity
	Destination string
	Message     string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s:%d: %s [%s] %s", i.Page, i.Line, i.Severity, i.Rule, i.Message)
}

// Options configures a check.
type Options struct {
	SourceExt string
	PageExt   string
}

// Check extracts every link of every page and reports the ones that do not
// resolve. assets lists the non-page files of the output (media and
// pass-through files) as slash-separated paths below the output root.
// External URLs and fragment-only links are not checked.
func Check(pages []Page, assets []string, opts Options) ([]Issue, error) {
	if opts.SourceExt == "" {
		opts.SourceExt = ".md"
	}
	if opts.PageExt == "" {
		opts.PageExt = ".html"
	}

	published := make(map[string]bool, len(pages))
	for _, p := range pages {
		published[publishedPath(p.Path, opts)] = true
	}
	files := make(map[string]bool, len(assets))
	for _, a := range assets {
		files[path.Clean(a)] = true
	}

	var issues []Issue
	for _, p := range pages {
		links, err := markdown.ExtractLinks(p.Body, markdown.Options{SkipAutoLinks: true})
		if err != nil {
			return nil, fmt.Errorf("extract links from %s: %w", p.Path, err)
		}
		dir := path.Dir(p.Path)
		for _, l := range links {
			if issue, ok := checkLink(p.Path, dir, l, published, files, opts); !ok {
				issues = append(issues, issue)
			}
		}
	}
	return issues, nil
}

func checkLink(page, dir string, l markdown.Link, published, files map[string]bool, opts Options) (Issue, bool) {
	if l.IsExternal() || l.Kind == markdown.LinkKindReferenceDefinition {
		return Issue{}, true
	}
	target := l.Path()
	if target == "" {
		return Issue{}, true
	}
	resolved := resolve(dir, target)

	issue := Issue{Page: page, Line: l.Line, Destination: l.Destination}
	switch {
	case l.Kind.IsImage():
		if files[resolved] {
			return Issue{}, true
		}
		issue.Rule = RuleMissingMedia
		issue.Severity = SeverityWarning
		issue.Message = fmt.Sprintf("image %q does not resolve to a copied asset", l.Destination)
	case strings.HasSuffix(target, opts.PageExt):
		if published[resolved] {
			return Issue{}, true
		}
		issue.Rule = RuleBrokenLink
		issue.Severity = SeverityError
		issue.Message = fmt.Sprintf("link %q does not resolve to an emitted page", l.Destination)
	case strings.HasSuffix(target, opts.SourceExt):
		issue.Rule = RuleSourceExtension
		issue.Severity = SeverityError
		issue.Message = fmt.Sprintf("link %q still uses the source extension %s", l.Destination, opts.SourceExt)
	default:
		if path.Ext(target) == "" || files[resolved] {
			return Issue{}, true
		}
		issue.Rule = RuleBrokenLink
		issue.Severity = SeverityWarning
		issue.Message = fmt.Sprintf("link %q does not resolve to a copied file", l.Destination)
	}
	return issue, false
}

// resolve turns a link target into a clean path below the output root.
// Root-relative targets ("/media/x.png") are taken from the output root.
func resolve(dir, target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	return path.Clean(path.Join(dir, target))
}

func publishedPath(p string, opts Options) string {
	return path.Clean(strings.TrimSuffix(p, opts.SourceExt) + opts.PageExt)
}

// Count returns the number of issues at each severity.
func Count(issues []Issue) (warnings, errors int) {
	for _, i := range issues {
		if i.Severity == SeverityError {
			errors++
		} else {
			warnings++
		}
	}
	return warnings, errors
}
