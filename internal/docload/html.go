package docload

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// readHTML extracts readable text blocks from an HTML document, preferring
// <main> or <article> and falling back to <body>. Paragraphs, headings and
// list items become separate segments; script, style and navigation chrome
// are skipped.
func readHTML(input []byte) []string {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return nil
	}
	root := firstElement(node, "main")
	if root == nil {
		root = firstElement(node, "article")
	}
	if root == nil {
		root = firstElement(node, "body")
	}
	if root == nil {
		return nil
	}

	var blocks []string
	var cur strings.Builder
	endBlock := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			blocks = append(blocks, s)
		}
		cur.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "script", "style", "noscript", "nav", "footer", "aside", "iframe", "head":
				return
			case "br":
				endBlock()
			case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "div", "tr":
				endBlock()
			}
		}
		if n.Type == html.TextNode {
			cur.WriteString(n.Data)
			cur.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "div", "tr":
				endBlock()
			}
		}
	}
	walk(root)
	endBlock()
	return blocks
}

func firstElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := firstElement(c, tag); res != nil {
			return res
		}
	}
	return nil
}
