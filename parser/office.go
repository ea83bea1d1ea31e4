// ABOUTME: Prayer-office pipeline: converts the provider's RSS-like feed into PrayerPart records
// ABOUTME: Each embedded-HTML item is segmented into paragraphs and classified by priority rules
package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"lectio/domain"
)

// rubricMaxLen bounds the short-rubric heuristic: a red, single-line
// paragraph longer than this is treated as content, not an instruction.
const rubricMaxLen = 150

// paragraph is one segmented unit of an office part before classification.
type paragraph struct {
	text      string
	isHeading bool
	isBold    bool
	isRed     bool
}

// ParseOffice extracts the structured daily office from the provider feed.
// Items that yield no sections are skipped; a feed yielding no parts at all
// is a parse failure.
func ParseOffice(feedXML string) ([]domain.PrayerPart, error) {
	feed, err := gofeed.NewParser().ParseString(feedXML)
	if err != nil {
		return nil, fmt.Errorf("office feed not parseable: %w", err)
	}

	var parts []domain.PrayerPart
	for _, item := range feed.Items {
		content := item.Content
		if content == "" {
			content = item.Description
		}

		sections := classifySections(segmentParagraphs(content))
		if len(sections) == 0 {
			continue
		}

		parts = append(parts, domain.PrayerPart{
			Title:    StripTags(item.Title),
			Link:     item.Link,
			Sections: sections,
		})
	}

	if len(parts) == 0 {
		return nil, domain.ErrParseYieldedNothing
	}
	return parts, nil
}

// segmentParagraphs splits embedded item HTML on paragraph boundaries,
// keeping the presentation hints (heading element, bold, red color) the
// classifier's positional and rubric rules need.
func segmentParagraphs(content string) []paragraph {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	var paras []paragraph
	doc.Find("p, h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		text := paragraphText(s)
		if text == "" {
			return
		}
		paras = append(paras, paragraph{
			text:      text,
			isHeading: goquery.NodeName(s)[0] == 'h',
			isBold:    s.Find("b, strong").Length() > 0,
			isRed:     isRedText(s),
		})
	})
	return paras
}

// isRedText reports whether a paragraph is rendered in the rubric color.
func isRedText(s *goquery.Selection) bool {
	check := func(sel *goquery.Selection) bool {
		if style, ok := sel.Attr("style"); ok && strings.Contains(strings.ToLower(style), "red") {
			return true
		}
		if color, ok := sel.Attr("color"); ok && strings.Contains(strings.ToLower(color), "red") {
			return true
		}
		if class, ok := sel.Attr("class"); ok && strings.Contains(strings.ToLower(class), "rubric") {
			return true
		}
		return false
	}
	if check(s) {
		return true
	}
	red := false
	s.Find("span, font").EachWithBreak(func(_ int, child *goquery.Selection) bool {
		red = check(child)
		return !red
	})
	return red
}

// Known non-content paragraphs filtered before classification: embedded
// media players, purchase and download calls-to-action, ribbon-placement
// instructions.
var noiseMarkers = []string{
	"audio player",
	"listen online",
	"download the app",
	"download our app",
	"purchase",
	"order a copy",
	"ribbon",
	"subscribe",
}

func isNoise(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range noiseMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Section-header texts observed in the office feed.
var sectionHeaders = []string{
	"invitatory",
	"hymn",
	"psalmody",
	"reading",
	"responsory",
	"canticle of zechariah",
	"intercessions",
	"the lord's prayer",
	"concluding prayer",
	"dismissal",
}

// Opening dialogue lines of the office.
var openingDialogues = []string{
	"lord, open my lips",
	"god, come to my assistance",
	"lord, make haste to help me",
}

// classifySections turns segmented paragraphs into tagged sections using a
// fixed rule priority: explicit section headers > psalm/canticle headers >
// single-line markers > doxology > opening dialogue > hymn-title position >
// short rubric > verse. Consecutive verse sections are merged so a sung text
// stays one section.
func classifySections(paras []paragraph) []domain.PrayerSection {
	var sections []domain.PrayerSection
	afterHymnHeading := false

	for _, p := range paras {
		if isNoise(p.text) {
			continue
		}

		section, ok := classifyOne(p, afterHymnHeading)
		if !ok {
			continue
		}

		afterHymnHeading = section.Kind == domain.SectionHeading &&
			strings.Contains(strings.ToLower(section.Text), "hymn")

		// Merge runs of verse paragraphs.
		if section.Kind == domain.SectionVerses && len(sections) > 0 &&
			sections[len(sections)-1].Kind == domain.SectionVerses {
			sections[len(sections)-1].Text += "\n\n" + section.Text
			continue
		}

		sections = append(sections, section)
	}
	return sections
}

func classifyOne(p paragraph, afterHymnHeading bool) (domain.PrayerSection, bool) {
	text := strings.TrimSpace(p.text)
	if text == "" {
		return domain.PrayerSection{}, false
	}
	lower := strings.ToLower(text)

	// 1. Explicit section headers.
	if p.isHeading || isUpperLine(text) {
		for _, header := range sectionHeaders {
			if strings.Contains(lower, header) {
				return domain.PrayerSection{Kind: domain.SectionHeading, Text: text}, true
			}
		}
		if p.isHeading {
			return domain.PrayerSection{Kind: domain.SectionHeading, Text: text}, true
		}
	}

	// 2. Psalm / canticle headers.
	if strings.HasPrefix(lower, "psalm ") || strings.HasPrefix(lower, "canticle") {
		return domain.PrayerSection{Kind: domain.SectionPsalmHeader, Text: text}, true
	}

	// 3. Special single-line markers.
	switch {
	case strings.HasPrefix(lower, "psalm-prayer"), strings.HasPrefix(lower, "psalm prayer"):
		return domain.PrayerSection{Kind: domain.SectionPrayerText, Text: text}, true
	case strings.HasPrefix(text, "Ant."), strings.HasPrefix(lower, "antiphon"):
		return domain.PrayerSection{Kind: domain.SectionAntiphon, Text: text}, true
	case strings.HasPrefix(text, "℟"), strings.HasPrefix(text, "R. "), strings.HasPrefix(text, "R: "):
		return domain.PrayerSection{Kind: domain.SectionDialogue, Text: text, Response: true}, true
	case strings.HasPrefix(text, "℣"), strings.HasPrefix(text, "V. "), strings.HasPrefix(text, "V: "):
		return domain.PrayerSection{Kind: domain.SectionDialogue, Text: text}, true
	}

	// 4. Doxology.
	if strings.HasPrefix(lower, "glory to the father") || strings.HasPrefix(lower, "glory be to the father") {
		return domain.PrayerSection{Kind: domain.SectionDoxology, Text: text}, true
	}

	// 5. Opening dialogue.
	for _, opening := range openingDialogues {
		if strings.HasPrefix(lower, opening) {
			return domain.PrayerSection{Kind: domain.SectionDialogue, Text: text}, true
		}
	}

	// 6. Hymn title: bold text immediately following the HYMN heading.
	if afterHymnHeading && p.isBold {
		return domain.PrayerSection{Kind: domain.SectionHymnTitle, Text: text}, true
	}

	// 7. Scripture reference line.
	if isReadingRef(text) {
		return domain.PrayerSection{Kind: domain.SectionReadingRef, Text: text}, true
	}

	// 8. Short rubric: red, single line, under the length bound.
	if p.isRed && len(text) < rubricMaxLen && !strings.Contains(text, "\n") {
		return domain.PrayerSection{Kind: domain.SectionRubric, Text: text}, true
	}

	return domain.PrayerSection{Kind: domain.SectionVerses, Text: text}, true
}

// isUpperLine reports whether a short line is written entirely in capitals,
// the feed's convention for section headers outside heading elements.
func isUpperLine(text string) bool {
	if len(text) > 60 || strings.Contains(text, "\n") {
		return false
	}
	hasLetter := false
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// isReadingRef matches a bare scripture citation line such as
// "1 Peter 4:13-14" or "Romans 8:35, 37".
func isReadingRef(text string) bool {
	if len(text) > 60 || strings.Contains(text, "\n") {
		return false
	}
	colon := strings.Index(text, ":")
	if colon <= 0 {
		return false
	}
	// A digit must sit on both sides of the colon (chapter:verse).
	before, after := text[:colon], text[colon+1:]
	if !strings.ContainsAny(after, "0123456789") {
		return false
	}
	trimmed := strings.TrimRight(before, "0123456789")
	return len(trimmed) < len(before) && strings.ContainsAny(before, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
}
