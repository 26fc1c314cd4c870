package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText removes non-printable characters and collapses all whitespace runs to one space.
func CleanText(s string) string {
	return strings.Join(strings.Fields(removeNonPrintable(s)), " ")
}

// Selector is a CSS selector understood by goquery.
type Selector string

// Document is a parsed html page that can only be queried through selectors.
type Document struct {
	doc *goquery.Document
}

func Parse(body []byte) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return Document{}, err
	}
	return Document{doc: doc}, nil
}

func (d Document) Find(selector Selector) Nodes {
	return Nodes{sel: d.doc.Find(string(selector))}
}

// Nodes is the result of a query, it may be empty.
type Nodes struct {
	sel *goquery.Selection
}

func (n Nodes) Find(selector Selector) Nodes {
	return Nodes{sel: n.sel.Find(string(selector))}
}

func (n Nodes) Len() int {
	return n.sel.Length()
}

func (n Nodes) Exists() bool {
	return n.sel.Length() > 0
}

func (n Nodes) First() Nodes {
	return Nodes{sel: n.sel.First()}
}

// Each calls fn with every matched node wrapped as its own Nodes, in document order.
func (n Nodes) Each(fn func(i int, node Nodes)) {
	n.sel.Each(func(i int, s *goquery.Selection) {
		fn(i, Nodes{sel: s})
	})
}

// Text returns the cleaned text of all matched nodes combined.
func (n Nodes) Text() string {
	var buffer strings.Builder
	for _, node := range n.sel.Nodes {
		buffer.WriteString(GetText(node))
	}
	return CleanText(buffer.String())
}

// Texts returns the cleaned text of every matched node, in document order.
func (n Nodes) Texts() []string {
	texts := make([]string, 0, len(n.sel.Nodes))
	for _, node := range n.sel.Nodes {
		texts = append(texts, CleanText(GetText(node)))
	}
	return texts
}

// Attr returns the attribute of the first matched node.
func (n Nodes) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}
