// ABOUTME: Shared markup cleanup helpers for the readings and office pipelines
// ABOUTME: Strips tags, decodes entities and preserves paragraph boundaries
package parser

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// StripTags removes all markup from a fragment and decodes HTML entities,
// collapsing runs of whitespace to single spaces.
func StripTags(raw string) string {
	return normalizeWhitespace(html.UnescapeString(stripPolicy.Sanitize(raw)))
}

// ExtractParagraphs converts an HTML fragment to plain text with paragraph
// breaks preserved as blank lines. Block elements become paragraphs; a
// fragment without block structure is returned as one stripped paragraph.
func ExtractParagraphs(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return StripTags(fragment)
	}

	var paragraphs []string
	doc.Find("p, h1, h2, h3, h4, li, blockquote").Each(func(_ int, s *goquery.Selection) {
		if text := paragraphText(s); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) == 0 {
		return StripTags(fragment)
	}
	return strings.Join(paragraphs, "\n\n")
}

// paragraphText renders one element's text with <br> runs kept as line
// breaks, entities decoded and surrounding whitespace trimmed.
func paragraphText(s *goquery.Selection) string {
	h, err := s.Html()
	if err != nil {
		return normalizeWhitespace(s.Text())
	}

	var lines []string
	for _, piece := range splitOnBreaks(h) {
		line := StripTags(piece)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// splitOnBreaks splits an HTML fragment on <br> tags in any spelling.
func splitOnBreaks(h string) []string {
	for _, br := range []string{"<br/>", "<br />", "<BR>", "<br>"} {
		h = strings.ReplaceAll(h, br, "\n")
	}
	return strings.Split(h, "\n")
}

func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
