// ABOUTME: Heuristic liturgical color and season classification from day titles
// ABOUTME: Keyword tiers are checked in fixed precedence; tiers hold disjoint keyword sets
package liturgical

import (
	"strings"

	"lectio/domain"
)

// colorTier is one precedence level of keyword matching. The first tier with
// a matching keyword decides the color; no title can match two keywords in
// the same tier because the sets are disjoint by construction.
type colorTier struct {
	color    domain.LiturgicalColor
	keywords map[string][]string
}

// Precedence: white (major feasts, Marian solemnities) > red (Pentecost,
// Passion, martyrs) > violet (penitential seasons) > rose (Gaudete and
// Laetare Sundays) > green default.
var colorTiers = []colorTier{
	{
		color: domain.ColorWhite,
		keywords: map[string][]string{
			"en": {"christmas", "easter", "epiphany", "ascension", "all saints",
				"immaculate conception", "assumption", "annunciation", "trinity",
				"corpus christi", "christ the king", "holy family", "baptism of the lord",
				"transfiguration", "our lady", "blessed virgin", "solemnity of mary",
				"nativity", "sacred heart", "saint joseph", "john the baptist"},
			"es": {"navidad", "pascua", "epifan", "ascensi", "todos los santos",
				"inmaculada", "asunci", "anunciaci", "trinidad", "corpus christi",
				"cristo rey", "sagrada familia", "bautismo del se", "transfiguraci",
				"nuestra se", "virgen", "natividad", "sagrado coraz", "san jos",
				"juan bautista"},
		},
	},
	{
		color: domain.ColorRed,
		keywords: map[string][]string{
			"en": {"pentecost", "palm sunday", "passion", "good friday", "martyr",
				"apostle", "evangelist", "holy cross", "precious blood"},
			"es": {"pentecost", "domingo de ramos", "pasi", "viernes santo", "mártir",
				"martir", "apóstol", "apostol", "evangelista", "santa cruz",
				"preciosa sangre"},
		},
	},
	{
		color: domain.ColorViolet,
		keywords: map[string][]string{
			"en": {"advent", "lent", "ash wednesday", "holy saturday", "all souls"},
			"es": {"adviento", "cuaresma", "miércoles de ceniza", "miercoles de ceniza",
				"sábado santo", "sabado santo", "fieles difuntos"},
		},
	},
	{
		color: domain.ColorRose,
		keywords: map[string][]string{
			"en": {"gaudete", "laetare"},
			"es": {"gaudete", "laetare"},
		},
	},
}

// ClassifyColor derives the liturgical color for a day from its season/title
// text. With no matching keyword in any tier the color is ordinary-time green.
func ClassifyColor(title, lang string) domain.LiturgicalColor {
	lower := strings.ToLower(title)
	for _, tier := range colorTiers {
		keywords, ok := tier.keywords[lang]
		if !ok {
			keywords = tier.keywords["en"]
		}
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return tier.color
			}
		}
	}
	return domain.ColorGreen
}

// seasonMarkers map title keywords to a normalized season label per language.
var seasonMarkers = []struct {
	keyword map[string]string
	season  map[string]string
}{
	{keyword: map[string]string{"en": "advent", "es": "adviento"},
		season: map[string]string{"en": "Advent", "es": "Adviento"}},
	{keyword: map[string]string{"en": "christmas", "es": "navidad"},
		season: map[string]string{"en": "Christmas", "es": "Navidad"}},
	{keyword: map[string]string{"en": "lent", "es": "cuaresma"},
		season: map[string]string{"en": "Lent", "es": "Cuaresma"}},
	{keyword: map[string]string{"en": "easter", "es": "pascua"},
		season: map[string]string{"en": "Easter", "es": "Pascua"}},
}

// ClassifySeason returns a normalized season label when the title names one,
// otherwise the title itself as free-text season context.
func ClassifySeason(title, lang string) string {
	lower := strings.ToLower(title)
	for _, m := range seasonMarkers {
		kw, ok := m.keyword[lang]
		if !ok {
			kw = m.keyword["en"]
		}
		if strings.Contains(lower, kw) {
			if s, ok := m.season[lang]; ok {
				return s
			}
			return m.season["en"]
		}
	}
	if title != "" {
		return title
	}
	if lang == "es" {
		return "Tiempo Ordinario"
	}
	return "Ordinary Time"
}
