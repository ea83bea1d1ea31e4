package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToDateKey(t *testing.T) {
	d := time.Date(2026, 3, 9, 23, 55, 0, 0, time.Local)
	assert.Equal(t, "2026-03-09", ToDateKey(d))
}

func TestFromDateKey(t *testing.T) {
	today := time.Date(2026, 3, 9, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "valid key", key: "2026-01-31", want: "2026-01-31"},
		{name: "empty falls back to today", key: "", want: "2026-03-09"},
		{name: "garbage falls back to today", key: "tomorrow-ish", want: "2026-03-09"},
		{name: "wrong layout falls back to today", key: "03/09/2026", want: "2026-03-09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDateKey(tt.key, today)
			assert.Equal(t, tt.want, ToDateKey(got))
		})
	}
}

func TestFromDateKeyKeepsLocalCalendar(t *testing.T) {
	// Near midnight the key must stay on the local calendar day,
	// never a UTC-shifted one.
	loc := time.FixedZone("UTC-7", -7*3600)
	today := time.Date(2026, 6, 1, 23, 30, 0, 0, loc)

	got := FromDateKey("2026-06-01", today)
	assert.Equal(t, "2026-06-01", ToDateKey(got))
	assert.Equal(t, loc.String(), got.Location().String())
}

func TestProviderToken(t *testing.T) {
	d := time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "030926", ProviderToken(d))
}
