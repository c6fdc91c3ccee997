package search

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	noResultsSelector = "div.dialog-error-block"
	containerSelector = "div#urls"
	resultSelector    = "article.result"
)

// documentNode backs Node with a goquery selection.
type documentNode struct {
	sel *goquery.Selection
}

func newDocumentNode(sel *goquery.Selection) Node {
	if sel == nil || sel.Length() == 0 {
		return missingNode{}
	}
	return documentNode{sel: sel}
}

func (n documentNode) Exists() bool { return n.sel.Length() > 0 }

func (n documentNode) Child(selector string) Node {
	return newDocumentNode(n.sel.Find(selector).First())
}

func (n documentNode) All(selector string) []Node {
	matches := n.sel.Find(selector)
	nodes := make([]Node, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, documentNode{sel: s})
	})
	return nodes
}

func (n documentNode) Text() string {
	return collapseSpace(n.sel.Text())
}

func (n documentNode) RawText() string {
	var lines []string
	for _, root := range n.sel.Nodes {
		collectText(root, &lines)
	}
	return strings.Join(lines, "\n")
}

func collectText(n *html.Node, lines *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*lines = append(*lines, t)
		}
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, lines)
	}
}

func (n documentNode) Attr(name string) string {
	v, _ := n.sel.Attr(name)
	return strings.TrimSpace(v)
}

func (n documentNode) NextText() string {
	node := n.sel.Get(0)
	if node == nil || node.NextSibling == nil || node.NextSibling.Type != html.TextNode {
		return ""
	}
	return strings.TrimSpace(node.NextSibling.Data)
}

func (n documentNode) Fields() []string { return nil }

// detectDocument locates result entries in server-rendered markup. It never
// fails: anything it cannot make sense of is reported as an empty set.
func detectDocument(raw []byte) *ResultSet {
	empty := &ResultSet{Shape: ShapeDocument}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return empty
	}
	if doc.Find(noResultsSelector).Length() > 0 {
		return empty
	}

	container := doc.Find(containerSelector).First()
	if container.Length() == 0 {
		return empty
	}

	root := documentNode{sel: container}
	return &ResultSet{Shape: ShapeDocument, Nodes: root.All(resultSelector)}
}
