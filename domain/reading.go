// ABOUTME: Core records for daily Mass readings served by the lectio service
// ABOUTME: DailyReadings aggregates are immutable once produced by the orchestrator
package domain

import "time"

// ReadingType identifies the liturgical role of a lectionary passage.
type ReadingType string

const (
	ReadingFirst    ReadingType = "first"
	ReadingPsalm    ReadingType = "psalm"
	ReadingSecond   ReadingType = "second"
	ReadingGospel   ReadingType = "gospel"
	ReadingAlleluia ReadingType = "alleluia"
)

// LiturgicalColor is the vestment color derived from the day's season/title.
type LiturgicalColor string

const (
	ColorGreen  LiturgicalColor = "green"
	ColorWhite  LiturgicalColor = "white"
	ColorRed    LiturgicalColor = "red"
	ColorViolet LiturgicalColor = "violet"
	ColorRose   LiturgicalColor = "rose"
)

// CacheState is a diagnostic tag describing how a response was produced.
// It never affects response validity.
type CacheState string

const (
	CacheHit       CacheState = "HIT"
	CacheMiss      CacheState = "MISS"
	CacheError     CacheState = "ERROR"
	CacheFetch     CacheState = "FETCH"
	CacheRateLimit CacheState = "RATE_LIMIT"
)

// Reading is a single lectionary passage. Immutable once produced.
type Reading struct {
	Citation string      `json:"citation"`
	Label    string      `json:"label"`
	Content  string      `json:"content"`
	Type     ReadingType `json:"type"`
}

// DailyReadings aggregates the readings for one (date, language) pair.
// A later fetch for the same key supersedes, never mutates, an earlier one.
type DailyReadings struct {
	Date            string          `json:"date"`
	Language        string          `json:"language"`
	Readings        []Reading       `json:"readings"`
	LiturgicalColor LiturgicalColor `json:"liturgicalColor"`
	Season          string          `json:"season"`
	Saint           string          `json:"saint,omitempty"`
	FetchedAt       time.Time       `json:"fetchedAt"`
	CacheState      CacheState      `json:"cacheState,omitempty"`
	Error           string          `json:"error,omitempty"`
}
