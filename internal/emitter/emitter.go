// Package emitter turns a document tree into the pages of a static site.
//
// Plan renders every Block in pre-order into a Page: front matter, the
// reconstructed heading, the rewritten body text, the chain trailer and one
// navigation link per child. Emit writes the planned pages below the output
// root, skipping pages whose content fingerprint did not change.
package emitter

import (
	"fmt"
	"strings"
	"sync"

	"git.home.luguber.info/inful/docsplit/internal/content"
	"git.home.luguber.info/inful/docsplit/internal/docmodel"
	"git.home.luguber.info/inful/docsplit/internal/frontmatter"
	"git.home.luguber.info/inful/docsplit/internal/metrics"
)

// Front matter keys, in emission order.
const (
	KeyTitle      = "title"
	KeyLayout     = "layout"
	KeyNavEnabled = "nav_enabled"
	KeyNavOrder   = "nav_order"
	KeyParent     = "parent"
	KeyHasTOC     = "has_toc"
)

// navLabelEscaper keeps bracketed titles from ending a link label early.
var navLabelEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`)

// DefaultNavLinkSuffix follows every generated child link.
const DefaultNavLinkSuffix = " <br/><br/>"

// Options configures an Emitter.
type Options struct {
	OutputDir string
	MediaDir  string // folder name below OutputDir, "media"
	SourceExt string // ".md"
	PageExt   string // ".html"

	Layout     string // "default"
	HomeLayout string // "home", used by the root page

	NavLinkSuffix string
	// Concurrency bounds parallel page writes; values below 1 mean sequential.
	Concurrency int

	Rewriter *content.Rewriter
	Recorder metrics.Recorder
	Style    frontmatter.Style
}

func (o Options) withDefaults() Options {
	if o.MediaDir == "" {
		o.MediaDir = "media"
	}
	if o.SourceExt == "" {
		o.SourceExt = docmodel.SourceExt
	}
	if o.PageExt == "" {
		o.PageExt = ".html"
	}
	if o.Layout == "" {
		o.Layout = "default"
	}
	if o.HomeLayout == "" {
		o.HomeLayout = "home"
	}
	if o.NavLinkSuffix == "" {
		o.NavLinkSuffix = DefaultNavLinkSuffix
	}
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.Rewriter == nil {
		o.Rewriter = content.NewRewriter(content.Options{SourceExt: o.SourceExt, PageExt: o.PageExt})
	}
	o.Recorder = metrics.OrNoop(o.Recorder)
	if o.Style.Newline == "" {
		o.Style = frontmatter.DefaultStyle
	}
	return o
}

// Emitter renders and writes pages. An Emitter remembers what it wrote last
// so a later Emit can prune pages that disappeared from the document.
type Emitter struct {
	opts Options

	mu       sync.Mutex
	manifest map[string]string // page path -> fingerprint of the last Emit
}

// New returns an Emitter for opts.
func New(opts Options) *Emitter {
	return &Emitter{opts: opts.withDefaults(), manifest: map[string]string{}}
}

// Options returns the effective options.
func (e *Emitter) Options() Options { return e.opts }

// Page is the rendered form of one Block.
type Page struct {
	ID    docmodel.BlockID
	Title string
	// Path is slash-separated below the output root, e.g. "Intro/Sub.md".
	Path string
	// Dir is the directory part of Path; "" for the root page.
	Dir    string
	Fields frontmatter.Fields
	// Body is everything after the front matter.
	Body []byte
	// Content is the full file.
	Content     []byte
	Fingerprint string
	// Rewrites counts the body rewrite rules that fired, by rule name.
	Rewrites map[string]int
	// Links are the generated navigation link targets, one per child.
	Links []string
}

// Plan renders every Block of t in pre-order. It does not touch the file system.
func (e *Emitter) Plan(t *docmodel.Tree, chain docmodel.ChainView) ([]Page, error) {
	pages := make([]Page, 0, t.Len())
	err := t.Walk(func(b *docmodel.Block) error {
		p, err := e.render(t, chain, b)
		if err != nil {
			return fmt.Errorf("render %s: %w", b, err)
		}
		pages = append(pages, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (e *Emitter) render(t *docmodel.Tree, chain docmodel.ChainView, b *docmodel.Block) (Page, error) {
	o := e.opts
	dir := Route(t, b.ID)
	p := Page{
		ID:       b.ID,
		Title:    b.Title,
		Path:     PagePath(t, b.ID),
		Dir:      dir,
		Fields:   e.fields(t, chain, b),
		Rewrites: map[string]int{},
	}

	nl := o.Style.Newline
	var body strings.Builder
	body.WriteString(b.Heading())
	body.WriteString(nl)

	media := mediaRel(dir, o.MediaDir)
	for _, line := range b.Text {
		res := o.Rewriter.Apply(line, media)
		for _, rule := range res.Applied {
			p.Rewrites[rule]++
		}
		body.WriteString(res.Line)
		body.WriteString(nl)
	}
	for _, line := range chain.Trailer(b.ID) {
		body.WriteString(line)
		body.WriteString(nl)
	}

	for _, child := range t.Children(b.ID) {
		target := swapExt(relativeTo(dir, PagePath(t, child.ID)), o.SourceExt, o.PageExt)
		p.Links = append(p.Links, target)
		fmt.Fprintf(&body, "[%s](%s)%s%s", navLabelEscaper.Replace(child.Title), target, o.NavLinkSuffix, nl)
	}

	header, err := frontmatter.SerializeYAML(p.Fields, o.Style)
	if err != nil {
		return Page{}, err
	}
	p.Body = []byte(body.String())
	p.Content = frontmatter.Join(header, p.Body, o.Style)
	p.Fingerprint = frontmatter.Fingerprint(header, p.Body)
	return p, nil
}

// fields builds the ordered front matter of b. The parent key is omitted for
// the root; parent titles go through the chain so a chained root shows as Home.
func (e *Emitter) fields(t *docmodel.Tree, chain docmodel.ChainView, b *docmodel.Block) frontmatter.Fields {
	layout := e.opts.Layout
	if b.IsRoot() {
		layout = e.opts.HomeLayout
	}
	fields := frontmatter.Fields{
		{Key: KeyTitle, Value: chain.DisplayTitle(b)},
		{Key: KeyLayout, Value: layout},
		{Key: KeyNavEnabled, Value: true},
		{Key: KeyNavOrder, Value: b.Index},
	}
	if parent, ok := t.Parent(b.ID); ok {
		fields = append(fields, frontmatter.Field{Key: KeyParent, Value: chain.DisplayTitle(parent)})
	}
	return append(fields, frontmatter.Field{Key: KeyHasTOC, Value: false})
}
