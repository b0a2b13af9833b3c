package ssr

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/agentuity/go-cssinjs/dom"
)

// Hydrate parses styling markup (as produced by Extract, or embedded in a
// server-rendered page) and inserts the styles into doc as adoptable nodes.
// Elements without both identifying attributes are ignored, as are style
// hashes the document already holds. Returns the number of nodes inserted.
func Hydrate(doc *dom.Document, markup string) (int, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return 0, err
	}

	var recs []Record
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "style" {
			var tokenHash, styleHash string
			for _, a := range n.Attr {
				switch a.Key {
				case dom.TokenHashAttr:
					tokenHash = a.Val
				case dom.StyleHashAttr:
					styleHash = a.Val
				}
			}
			var css strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					css.WriteString(c.Data)
				}
			}
			if styleHash != "" {
				recs = append(recs, Record{
					StyleHash: styleHash,
					TokenHash: tokenHash,
					CSSText:   css.String(),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(root)

	return HydrateRecords(doc, recs), nil
}
