// ABOUTME: Readings pipeline: converts the provider's daily listing HTML into Reading records
// ABOUTME: Structural selectors are an observed, uncontrolled contract and live only in this file
package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lectio/domain"
)

// listingSelectors pins the structural markers of one observed version of the
// provider's daily listing markup. A markup revision gets a new selector set,
// not edits to this one.
type listingSelectors struct {
	block    string
	label    string
	citation string
	body     string
}

// listingV1 matches the provider markup as observed: repeating verse blocks,
// each with a role heading, a linked scripture address and a content body.
var listingV1 = listingSelectors{
	block:    "div.b-verse",
	label:    "h3.name",
	citation: "div.address a",
	body:     "div.content-body",
}

// labelRule maps a language-specific keyword found in a raw block label to a
// canonical reading type and localized label. First matching rule wins.
type labelRule struct {
	keyword string
	typ     domain.ReadingType
	label   string
}

// Rules are ordered so that more specific keywords match before generic ones
// ("alleluia" before "gospel": the verse before the gospel mentions both).
var labelRules = map[string][]labelRule{
	"en": {
		{keyword: "alleluia", typ: domain.ReadingAlleluia, label: "Alleluia"},
		{keyword: "verse before", typ: domain.ReadingAlleluia, label: "Alleluia"},
		{keyword: "psalm", typ: domain.ReadingPsalm, label: "Responsorial Psalm"},
		{keyword: "gospel", typ: domain.ReadingGospel, label: "Gospel"},
		{keyword: "second", typ: domain.ReadingSecond, label: "Second Reading"},
		{keyword: "reading ii", typ: domain.ReadingSecond, label: "Second Reading"},
		{keyword: "reading 2", typ: domain.ReadingSecond, label: "Second Reading"},
	},
	"es": {
		{keyword: "aleluya", typ: domain.ReadingAlleluia, label: "Aleluya"},
		{keyword: "aclamaci", typ: domain.ReadingAlleluia, label: "Aleluya"},
		{keyword: "salmo", typ: domain.ReadingPsalm, label: "Salmo Responsorial"},
		{keyword: "evangelio", typ: domain.ReadingGospel, label: "Evangelio"},
		{keyword: "segunda", typ: domain.ReadingSecond, label: "Segunda Lectura"},
	},
}

var firstReadingLabel = map[string]string{
	"en": "First Reading",
	"es": "Primera Lectura",
}

// ReadingsPage is everything the readings pipeline extracts from one daily
// listing: the passages plus the day's title text used for classification.
type ReadingsPage struct {
	Readings []domain.Reading
	Title    string
	Saint    string
}

// ParseReadingsPage extracts structured readings from raw listing HTML.
// Malformed blocks are skipped; only a page that yields no readings at all
// is a parse failure.
func ParseReadingsPage(raw, lang string) (*ReadingsPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("readings listing not parseable: %w", err)
	}

	page := &ReadingsPage{Title: dayTitle(doc)}
	page.Saint = saintFromTitle(page.Title, lang)

	doc.Find(listingV1.block).Each(func(_ int, block *goquery.Selection) {
		rawLabel := strings.TrimSpace(block.Find(listingV1.label).First().Text())
		citation := strings.TrimSpace(block.Find(listingV1.citation).First().Text())

		body, err := block.Find(listingV1.body).First().Html()
		if err != nil {
			return
		}
		content := ExtractParagraphs(body)
		if rawLabel == "" || content == "" {
			return
		}

		typ, label := normalizeLabel(rawLabel, lang)
		page.Readings = append(page.Readings, domain.Reading{
			Citation: citation,
			Label:    label,
			Content:  content,
			Type:     typ,
		})
	})

	if len(page.Readings) == 0 {
		return nil, domain.ErrParseYieldedNothing
	}
	return page, nil
}

// normalizeLabel maps a raw block label to a canonical type and localized
// label via case-insensitive substring match. An unmatched label defaults to
// the first reading; this is the documented reference policy, so genuine
// label drift shows up as a misfiled first reading rather than a lost block.
func normalizeLabel(rawLabel, lang string) (domain.ReadingType, string) {
	rules, ok := labelRules[lang]
	if !ok {
		lang = "en"
		rules = labelRules[lang]
	}

	lower := strings.ToLower(rawLabel)
	for _, rule := range rules {
		if strings.Contains(lower, rule.keyword) {
			return rule.typ, rule.label
		}
	}
	return domain.ReadingFirst, firstReadingLabel[lang]
}

// dayTitle pulls the liturgical day title from the listing head.
func dayTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("h2").First().Text()); t != "" {
		return t
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	// Provider titles carry a site suffix after a pipe.
	if i := strings.Index(title, "|"); i > 0 {
		title = strings.TrimSpace(title[:i])
	}
	return title
}

var saintMarkers = map[string][]string{
	"en": {"saint ", "st. ", "blessed "},
	"es": {"san ", "santa ", "santo ", "beato ", "beata "},
}

// saintFromTitle surfaces the commemorated saint when the day title names one.
func saintFromTitle(title, lang string) string {
	lower := strings.ToLower(title)
	for _, marker := range saintMarkers[lang] {
		if strings.Contains(lower, marker) {
			return title
		}
	}
	return ""
}
