package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// joinedText concatenates the trimmed, non-empty text nodes under n with sep.
func joinedText(n *html.Node, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if t := strings.TrimSpace(node.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, sep)
}

func selectionText(sel *goquery.Selection, sep string) string {
	if sel.Length() == 0 {
		return ""
	}
	return joinedText(sel.Get(0), sep)
}

// nextAfter returns the node that follows n's subtree in document order,
// without leaving root.
func nextAfter(n, root *html.Node) *html.Node {
	for n != nil && n != root {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

// nextInOrder is a pre-order step bounded by root.
func nextInOrder(n, root *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	return nextAfter(n, root)
}

func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
		if s.Type == html.TextNode && strings.TrimSpace(s.Data) != "" {
			return nil
		}
	}
	return nil
}

func isElement(n *html.Node, tags map[string]struct{}) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	_, ok := tags[n.Data]
	return ok
}
