package domain

import "time"

// SectionKind is the closed set of paragraph classifications for the
// structured morning-prayer office. Downstream rendering switches
// exhaustively on this kind.
type SectionKind string

const (
	SectionDialogue    SectionKind = "dialogue"
	SectionAntiphon    SectionKind = "antiphon"
	SectionPsalmHeader SectionKind = "psalm-header"
	SectionVerses      SectionKind = "verses"
	SectionDoxology    SectionKind = "doxology"
	SectionRubric      SectionKind = "rubric"
	SectionHeading     SectionKind = "heading"
	SectionHymnTitle   SectionKind = "hymn-title"
	SectionReadingRef  SectionKind = "reading-ref"
	SectionPrayerText  SectionKind = "prayer-text"
)

// PrayerSection is one classified paragraph of a prayer part.
// Response marks the answering line of a dialogue (versicle/response pair).
type PrayerSection struct {
	Kind     SectionKind `json:"kind"`
	Text     string      `json:"text"`
	Response bool        `json:"response,omitempty"`
}

// PrayerPart is one titled unit of the daily office (invitatory, hymn,
// psalmody, reading, canticle, intercessions, concluding prayer).
type PrayerPart struct {
	Title    string          `json:"title"`
	Link     string          `json:"link,omitempty"`
	Sections []PrayerSection `json:"sections"`
}

// PrayerOffice is the full structured office for one day.
// Produced wholesale by the parser, never partially updated.
type PrayerOffice struct {
	Parts      []PrayerPart `json:"parts"`
	CachedAt   time.Time    `json:"cachedAt"`
	CacheState CacheState   `json:"cacheState,omitempty"`
	Error      string       `json:"error,omitempty"`
}
