package scraper

import (
	"strings"

	"golang.org/x/net/html"
)

type match func(*html.Node) bool

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(class string) match {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		v, ok := attr(n, "class")
		if !ok {
			return false
		}
		for _, c := range strings.Fields(v) {
			if c == class {
				return true
			}
		}
		return false
	}
}

func hasAttr(key string) match {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		_, ok := attr(n, key)
		return ok
	}
}

func isTag(tags ...string) match {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, t := range tags {
			if n.Data == t {
				return true
			}
		}
		return false
	}
}

func and(a, b match) match {
	return func(n *html.Node) bool { return a(n) && b(n) }
}

// within matches nodes accepted by m that have an ancestor accepted by outer,
// the equivalent of the CSS descendant combinator "outer m".
func within(outer, m match) match {
	return func(n *html.Node) bool {
		if !m(n) {
			return false
		}
		for p := n.Parent; p != nil; p = p.Parent {
			if outer(p) {
				return true
			}
		}
		return false
	}
}

// findAll returns descendants of root (root excluded) in document order.
func findAll(root *html.Node, m match) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if m(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

func findFirst(root *html.Node, m match) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if m(c) {
			return c
		}
		if n := findFirst(c, m); n != nil {
			return n
		}
	}
	return nil
}

func contains(outer, inner *html.Node) bool {
	for p := inner.Parent; p != nil; p = p.Parent {
		if p == outer {
			return true
		}
	}
	return false
}

func closest(n *html.Node, m match) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if m(p) {
			return p
		}
	}
	return nil
}

// text concatenates all text below n, skipping script and style.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// lines splits the text below n into trimmed, non-empty lines. Each text node
// starts a new line so adjacent block elements do not run together.
func lines(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			for _, l := range strings.Split(n.Data, "\n") {
				if l = strings.TrimSpace(l); l != "" {
					out = append(out, l)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func trimmedText(n *html.Node) string {
	return strings.Join(strings.Fields(text(n)), " ")
}
