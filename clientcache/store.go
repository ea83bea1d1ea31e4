// ABOUTME: Client-resident SQLite store for readings, preferences and rosary progress
// ABOUTME: Reads never touch the network; writes prune entries older than 30 days
package clientcache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"lectio/domain"
)

// retentionDays bounds how long readings stay on the device.
const retentionDays = 30

// Preferences is the singleton row of device settings.
type Preferences struct {
	DarkMode      bool      `json:"darkMode"`
	FontSize      int       `json:"fontSize"`
	Notifications bool      `json:"notifications"`
	LastVisit     time.Time `json:"lastVisit"`
}

// RosaryProgress tracks one day's rosary state.
type RosaryProgress struct {
	Date        string   `json:"date"`
	MysterySet  string   `json:"mysterySet"`
	DecadeIndex int      `json:"decadeIndex"`
	Completed   bool     `json:"completed"`
	Intentions  []string `json:"intentions"`
}

// Store is the on-device persistent cache.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// New opens (or creates) the SQLite database at path and ensures the schema.
func New(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open client cache: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger, now: time.Now}, nil
}

func ensureSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS readings (
			date TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			saved_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS preferences (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			dark_mode INTEGER NOT NULL,
			font_size INTEGER NOT NULL,
			notifications INTEGER NOT NULL,
			last_visit TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rosary_progress (
			date TEXT PRIMARY KEY,
			mystery_set TEXT NOT NULL,
			decade_index INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			intentions TEXT NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure client cache schema: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveReadings upserts one day's readings and prunes entries older than the
// retention window in the same transaction, so storage stays bounded no
// matter how the save goes.
func (s *Store) SaveReadings(readings *domain.DailyReadings) error {
	payload, err := json.Marshal(readings)
	if err != nil {
		return fmt.Errorf("marshal readings: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save readings: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO readings (date, payload, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		readings.Date, payload, s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert readings: %w", err)
	}

	cutoff := domain.ToDateKey(s.now().AddDate(0, 0, -retentionDays))
	if _, err := tx.Exec(`DELETE FROM readings WHERE date < ?`, cutoff); err != nil {
		return fmt.Errorf("prune readings: %w", err)
	}

	return tx.Commit()
}

// GetReadings returns the stored readings for a date key, or (nil, nil) when
// the day is not cached.
func (s *Store) GetReadings(date string) (*domain.DailyReadings, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM readings WHERE date = ?`, date).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load readings: %w", err)
	}

	var readings domain.DailyReadings
	if err := json.Unmarshal(payload, &readings); err != nil {
		return nil, fmt.Errorf("decode readings: %w", err)
	}
	return &readings, nil
}

// SavePreferences replaces the singleton preferences row.
func (s *Store) SavePreferences(prefs Preferences) error {
	_, err := s.db.Exec(
		`INSERT INTO preferences (id, dark_mode, font_size, notifications, last_visit)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			dark_mode = excluded.dark_mode,
			font_size = excluded.font_size,
			notifications = excluded.notifications,
			last_visit = excluded.last_visit`,
		prefs.DarkMode, prefs.FontSize, prefs.Notifications, prefs.LastVisit.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// GetPreferences returns the stored preferences, or defaults when none were
// ever saved.
func (s *Store) GetPreferences() (Preferences, error) {
	var prefs Preferences
	var lastVisit string

	err := s.db.QueryRow(
		`SELECT dark_mode, font_size, notifications, last_visit FROM preferences WHERE id = 1`,
	).Scan(&prefs.DarkMode, &prefs.FontSize, &prefs.Notifications, &lastVisit)
	if errors.Is(err, sql.ErrNoRows) {
		return Preferences{FontSize: 16, Notifications: true}, nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("load preferences: %w", err)
	}

	if prefs.LastVisit, err = time.Parse(time.RFC3339, lastVisit); err != nil {
		return Preferences{}, fmt.Errorf("decode preferences: %w", err)
	}
	return prefs, nil
}

// SaveRosaryProgress upserts one day's rosary state.
func (s *Store) SaveRosaryProgress(progress RosaryProgress) error {
	intentions, err := json.Marshal(progress.Intentions)
	if err != nil {
		return fmt.Errorf("marshal intentions: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO rosary_progress (date, mystery_set, decade_index, completed, intentions)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
			mystery_set = excluded.mystery_set,
			decade_index = excluded.decade_index,
			completed = excluded.completed,
			intentions = excluded.intentions`,
		progress.Date, progress.MysterySet, progress.DecadeIndex, progress.Completed, intentions,
	)
	if err != nil {
		return fmt.Errorf("save rosary progress: %w", err)
	}
	return nil
}

// GetRosaryProgress returns the stored progress for a date key, or (nil, nil)
// when the day has no progress.
func (s *Store) GetRosaryProgress(date string) (*RosaryProgress, error) {
	var progress RosaryProgress
	var intentions []byte

	err := s.db.QueryRow(
		`SELECT date, mystery_set, decade_index, completed, intentions FROM rosary_progress WHERE date = ?`,
		date,
	).Scan(&progress.Date, &progress.MysterySet, &progress.DecadeIndex, &progress.Completed, &intentions)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load rosary progress: %w", err)
	}

	if err := json.Unmarshal(intentions, &progress.Intentions); err != nil {
		return nil, fmt.Errorf("decode intentions: %w", err)
	}
	return &progress, nil
}
