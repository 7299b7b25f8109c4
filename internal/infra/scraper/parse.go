package scraper

import (
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/bryanwahyu/ph-daily/internal/domain/products"
)

const pendingDescription = "Description pending"

// productSelectors are tried in order; the first one with any hit wins.
var productSelectors = []struct {
	name string
	m    match
}{
	{".product-item", hasClass("product-item")},
	{".hot-product", hasClass("hot-product")},
	{".product-card", hasClass("product-card")},
	{".daily-product", hasClass("daily-product")},
	{"[data-product]", hasAttr("data-product")},
	{".entry-content .product", within(hasClass("entry-content"), hasClass("product"))},
	{".ph-daily-product", hasClass("ph-daily-product")},
}

var (
	blockTags = isTag("div", "article", "section")
	nameMatch = []match{
		isTag("h1"), isTag("h2"), isTag("h3"), isTag("h4"),
		hasClass("product-name"), hasClass("title"), hasClass("product-title"),
	}
	descMatch = []match{
		isTag("p"), hasClass("description"), hasClass("summary"),
		hasClass("product-description"), hasClass("excerpt"),
	}

	rankMarker   = regexp.MustCompile(`\d+\.`)
	leadingRank  = regexp.MustCompile(`^\d+\.\s*`)
	leadingHash  = regexp.MustCompile(`^#\d+\s*`)
	votesPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:votes?|upvotes?|票)`)
)

// fallbackLimit caps the heuristic element strategies.
const fallbackLimit = 10

// Parse extracts up to limit products from a leaderboard page and reports
// which element strategy found them. Relative image and link URLs are
// resolved against base.
func Parse(r io.Reader, base *url.URL, limit int) ([]products.Product, string, error) {
	if limit <= 0 {
		limit = fallbackLimit
	}
	doc, err := html.Parse(r)
	if err != nil {
		return nil, "", err
	}
	elems, strategy := productElements(doc)

	out := make([]products.Product, 0, limit)
	for _, el := range elems {
		if len(out) == limit {
			break
		}
		p, ok := extract(el, base)
		if !ok {
			continue
		}
		p.Rank = len(out) + 1
		out = append(out, p)
	}
	return out, strategy, nil
}

func productElements(doc *html.Node) ([]*html.Node, string) {
	for _, s := range productSelectors {
		if found := findAll(doc, s.m); len(found) > 0 {
			return found, s.name
		}
	}

	// Blocks carrying a rank marker such as "1." with enough text. Only the
	// innermost candidates are kept so a page wrapper does not swallow the list.
	candidates := findAll(doc, func(n *html.Node) bool {
		if !blockTags(n) {
			return false
		}
		t := strings.TrimSpace(text(n))
		return rankMarker.MatchString(t) && utf8.RuneCountInString(t) > 20
	})
	if leaves := innermost(candidates); len(leaves) > 0 {
		return head(leaves, fallbackLimit), "rank-marker"
	}

	// Parents of images that carry a reasonable amount of text.
	var parents []*html.Node
	seen := map[*html.Node]bool{}
	for _, img := range head(findAll(doc, and(isTag("img"), hasAttr("src"))), fallbackLimit) {
		p := closest(img, blockTags)
		if p == nil || seen[p] {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(text(p))) > 50 {
			seen[p] = true
			parents = append(parents, p)
		}
	}
	if len(parents) > 0 {
		return parents, "image-parent"
	}
	return nil, ""
}

func innermost(nodes []*html.Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		leaf := true
		for _, other := range nodes {
			if other != n && contains(n, other) {
				leaf = false
				break
			}
		}
		if leaf {
			out = append(out, n)
		}
	}
	return out
}

func head(nodes []*html.Node, n int) []*html.Node {
	if len(nodes) > n {
		return nodes[:n]
	}
	return nodes
}

func extract(el *html.Node, base *url.URL) (products.Product, bool) {
	ls := lines(el)

	name := ""
	for _, m := range nameMatch {
		if n := findFirst(el, m); n != nil {
			name = trimmedText(n)
			break
		}
	}
	if name == "" && len(ls) > 0 {
		name = ls[0]
	}
	name = leadingRank.ReplaceAllString(name, "")
	name = leadingHash.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 2 {
		return products.Product{}, false
	}

	desc := ""
	for _, m := range descMatch {
		if n := findFirst(el, m); n != nil {
			desc = trimmedText(n)
			break
		}
	}
	if desc == "" && len(ls) > 1 {
		desc = ls[0]
		if len(ls[1]) > len(ls[0]) {
			desc = ls[1]
		}
	}
	if desc == "" {
		desc = pendingDescription
	}

	p := products.Product{Name: name, Description: desc}
	if img := findFirst(el, and(isTag("img"), hasAttr("src"))); img != nil {
		src, _ := attr(img, "src")
		p.ImageURL = resolve(base, src)
	}
	if a := findFirst(el, and(isTag("a"), hasAttr("href"))); a != nil {
		href, _ := attr(a, "href")
		link := resolve(base, href)
		if strings.Contains(link, "producthunt.com") {
			p.ProductHuntURL = link
		} else {
			p.WebsiteURL = link
		}
	}
	if m := votesPattern.FindStringSubmatch(text(el)); m != nil {
		p.Votes, _ = strconv.Atoi(m[1])
	}
	return p, true
}

func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil || u.IsAbs() {
		return u.String()
	}
	return base.ResolveReference(u).String()
}
