package markdown

import (
	"bytes"

	gmast "github.com/yuin/goldmark/ast"
	"golang.org/x/net/html"
)

// htmlLinkAttrs maps the elements whose references are checked to the
// attribute carrying the destination.
var htmlLinkAttrs = map[string]string{
	"a":   "href",
	"img": "src",
}

// rawHTML returns the source bytes of an HTML block or inline raw HTML node.
func rawHTML(n gmast.Node, source []byte) ([]byte, bool) {
	var buf bytes.Buffer
	switch node := n.(type) {
	case *gmast.HTMLBlock:
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(source))
		}
		if node.HasClosure() {
			buf.Write(node.ClosureLine.Value(source))
		}
	case *gmast.RawHTML:
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			buf.Write(seg.Value(source))
		}
	default:
		return nil, false
	}
	return buf.Bytes(), true
}

// extractHTMLLinks tokenizes raw HTML and returns <a href> and <img src>
// references. Break tags and other markup are ignored.
func extractHTMLLinks(raw []byte, line int) []Link {
	var links []Link
	z := html.NewTokenizer(bytes.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return links
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			want, ok := htmlLinkAttrs[tok.Data]
			if !ok {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key == want && attr.Val != "" {
					kind := LinkKindHTML
					if tok.Data == "img" {
						kind = LinkKindHTMLImage
					}
					links = append(links, Link{Kind: kind, Destination: attr.Val, Line: line})
				}
			}
		}
	}
}
