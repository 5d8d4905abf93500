package fetch

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// skippedElements never contribute to the text rendition.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// Extract locates the first container matching sel.Containers and returns its
// text: every text fragment trimmed, empty fragments dropped, one per line.
func Extract(pageURL, rawHTML string, sel Selectors) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		// The parser is permissive; this only fires on reader errors.
		return "", &ExtractionError{URL: pageURL, Selectors: sel.Containers}
	}

	for _, selector := range sel.Containers {
		if selection := doc.Find(selector); selection.Length() > 0 {
			return TextLines(selection.First()), nil
		}
	}

	return "", &ExtractionError{
		URL:         pageURL,
		Selectors:   sel.Containers,
		Diagnostics: Diagnose(doc),
	}
}

// TextLines renders a selection as newline-separated trimmed text fragments.
func TextLines(selection *goquery.Selection) string {
	var lines []string
	for _, node := range selection.Nodes {
		collectText(node, &lines)
	}
	return strings.Join(lines, "\n")
}

func collectText(n *html.Node, lines *[]string) {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			*lines = append(*lines, text)
		}
		return
	case html.ElementNode:
		if skippedElements[n.Data] {
			return
		}
	case html.CommentNode:
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, lines)
	}
}

// Diagnose lists element ids and button identifiers present in doc.
func Diagnose(doc *goquery.Document) Diagnostics {
	seen := make(map[string]bool)
	var ids []string
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	})
	sort.Strings(ids)

	var buttons []ButtonInfo
	doc.Find("button").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		class, _ := s.Attr("class")
		if id != "" || class != "" {
			buttons = append(buttons, ButtonInfo{ID: id, Class: strings.Join(strings.Fields(class), " ")})
		}
	})

	return Diagnostics{IDs: ids, Buttons: buttons}
}
