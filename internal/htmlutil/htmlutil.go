// Package htmlutil reduces HTML documents to their visible text.
package htmlutil

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/happyhackingspace/corpusfold/internal/textutil"
)

// LoadHTML parses HTML bytes into a goquery Document.
func LoadHTML(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// VisibleText returns the text of the document body without script, style
// and other non-rendered elements, with whitespace collapsed.
func VisibleText(doc *goquery.Document) string {
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	root = root.Clone()
	root.Find("script, style, noscript, template, head").Remove()

	var parts []string
	root.Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, s.Text())
	})
	return strings.TrimSpace(textutil.NormalizeWhitespaces(strings.Join(parts, " ")))
}

// ExtractText parses r as HTML and returns its visible text.
func ExtractText(r io.Reader) (string, error) {
	doc, err := LoadHTML(r)
	if err != nil {
		return "", err
	}
	return VisibleText(doc), nil
}
