// Package markdown extracts link-like constructs from emitted page bodies.
//
// Parsing uses goldmark so code spans, fenced blocks and raw HTML are not
// mistaken for links. It is an analysis API and never re-renders Markdown.
package markdown

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// ExtractLinks parses a Markdown body (front matter already removed) and
// returns its links, images, autolinks, raw HTML <a>/<img> references and
// reference definitions in document order, definitions last.
func ExtractLinks(body []byte, opts Options) ([]Link, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			if opts.SkipAutoLinks {
				return gmast.WalkContinue, nil
			}
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body)), Line: lineOf(node, body)})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination), Line: lineOf(node, body)})
		case *gmast.Link:
			// Reference-style links are resolved by goldmark into Link nodes.
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination), Line: lineOf(node, body)})
		case *gmast.HTMLBlock, *gmast.RawHTML:
			if raw, ok := rawHTML(node, body); ok {
				links = append(links, extractHTMLLinks(raw, lineOf(node, body))...)
			}
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	// Reference definitions live in the parse context, not in the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	return links, nil
}

// lineOf returns the 1-based line of the block that contains n, or 0 when the
// position is unknown.
func lineOf(n gmast.Node, source []byte) int {
	for p := n; p != nil; p = p.Parent() {
		if p.Type() != gmast.TypeBlock {
			continue
		}
		lines := p.Lines()
		if lines == nil || lines.Len() == 0 {
			continue
		}
		start := lines.At(0).Start
		if start > len(source) {
			return 0
		}
		return bytes.Count(source[:start], []byte("\n")) + 1
	}
	return 0
}
