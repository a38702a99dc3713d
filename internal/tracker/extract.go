package tracker

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SelectorExtractor extracts fields from HTML markup using CSS selectors.
type SelectorExtractor struct{}

var _ FieldExtractor = SelectorExtractor{}

// NewSelectorExtractor creates a new CSS selector based extractor.
func NewSelectorExtractor() SelectorExtractor {
	return SelectorExtractor{}
}

// Extract returns the trimmed text of the first element matching the
// locator. A missing element, an empty locator or unparseable markup all
// report absence; the caller decides whether absence is an error.
func (SelectorExtractor) Extract(markup []byte, locator string) (string, bool) {
	if locator == "" {
		return "", false
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return "", false
	}

	sel := doc.Find(locator).First()
	if sel.Length() == 0 {
		return "", false
	}

	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return "", false
	}
	return text, true
}
