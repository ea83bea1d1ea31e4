// ABOUTME: Canonical date keys for cache namespacing and provider URL tokens
// ABOUTME: Always uses the local calendar to avoid off-by-one days near midnight
package domain

import "time"

const (
	// DateKeyLayout is the canonical YYYY-MM-DD key shared by every cache layer.
	DateKeyLayout = "2006-01-02"

	// providerTokenLayout is the compact MMDDYY token the origin provider
	// embeds in its daily listing URLs.
	providerTokenLayout = "010206"
)

// ToDateKey formats a date as the canonical local-calendar key.
func ToDateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// FromDateKey parses a canonical key back into a local-calendar date.
// An empty or unparsable key falls back to today rather than failing, so a
// request with a bad date degrades to the current day's content.
func FromDateKey(key string, today time.Time) time.Time {
	if key == "" {
		return today
	}
	t, err := time.ParseInLocation(DateKeyLayout, key, today.Location())
	if err != nil {
		return today
	}
	return t
}

// ProviderToken formats a date as the origin provider's compact URL token.
// Used only when constructing origin URLs.
func ProviderToken(t time.Time) string {
	return t.Format(providerTokenLayout)
}
