// Package mind implements the durable memory store for mindweave.
//
// It uses SQLite to persist entities, observations, relations, journals,
// threads, emotional notes, identity entries, context entries, relational
// state and the subconscious snapshot. Everything the MCP tools and the
// subconscious daemon read or write goes through this package.
package mind

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Sentinel errors returned by store lookups. Tool handlers translate these
// into plain user-facing messages instead of propagating them upward.
var (
	// ErrNotFound is returned when a lookup by id, name, or text match
	// finds no row.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned when a required parameter is missing
	// or malformed.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds memory store configuration. The scoring and windowing
// constants live here so behavior is tunable without code changes.
type Config struct {
	DataDir string

	// RecencyWindow bounds which observations count toward entity warmth
	// and mood in a subconscious run.
	RecencyWindow time.Duration

	// ConsolidateWindowDays is the default lookback for mind_consolidate.
	ConsolidateWindowDays int

	// DaemonInterval is how often the subconscious run fires.
	DaemonInterval time.Duration

	MaxSearchResults int
}

// DefaultConfig returns the default configuration for the memory store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:               filepath.Join(home, ".mindweave"),
		RecencyWindow:         48 * time.Hour,
		ConsolidateWindowDays: 7,
		DaemonInterval:        time.Hour,
		MaxSearchResults:      10,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the persistent memory engine backed by SQLite.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates a new Store with the given configuration.
// It creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("mind: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "mind.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("mind: open database: %w", err)
	}

	// SQLite performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("mind: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("mind: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Config returns the store's configuration.
func (s *Store) Config() Config {
	return s.cfg
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS entities (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			entity_type TEXT NOT NULL DEFAULT 'concept',
			context     TEXT NOT NULL DEFAULT 'default',
			created_at  TEXT NOT NULL DEFAULT (datetime('now')),
			UNIQUE(name, context)
		);

		CREATE TABLE IF NOT EXISTS observations (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_id  INTEGER NOT NULL,
			content    TEXT    NOT NULL,
			salience   TEXT    NOT NULL DEFAULT 'active',
			emotion    TEXT,
			weight     TEXT    NOT NULL DEFAULT 'medium',
			added_at   TEXT    NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT,
			FOREIGN KEY (entity_id) REFERENCES entities(id)
		);

		CREATE INDEX IF NOT EXISTS idx_obs_entity ON observations(entity_id);
		CREATE INDEX IF NOT EXISTS idx_obs_added  ON observations(added_at DESC);

		CREATE TABLE IF NOT EXISTS relations (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			from_entity   TEXT NOT NULL,
			to_entity     TEXT NOT NULL,
			relation_type TEXT NOT NULL,
			from_context  TEXT NOT NULL DEFAULT 'default',
			to_context    TEXT NOT NULL DEFAULT 'default',
			created_at    TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_rel_from ON relations(from_entity);
		CREATE INDEX IF NOT EXISTS idx_rel_to   ON relations(to_entity);

		CREATE TABLE IF NOT EXISTS journals (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_date TEXT NOT NULL,
			content    TEXT NOT NULL,
			tags       TEXT NOT NULL DEFAULT '[]',
			emotion    TEXT,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS threads (
			id          TEXT PRIMARY KEY,
			thread_type TEXT NOT NULL DEFAULT 'intention',
			content     TEXT NOT NULL,
			context     TEXT,
			priority    TEXT NOT NULL DEFAULT 'medium',
			status      TEXT NOT NULL DEFAULT 'active',
			resolution  TEXT,
			resolved_at TEXT,
			created_at  TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS notes (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			content           TEXT    NOT NULL,
			weight            TEXT    NOT NULL DEFAULT 'medium',
			charge            TEXT    NOT NULL DEFAULT 'fresh',
			sit_count         INTEGER NOT NULL DEFAULT 0,
			emotion           TEXT,
			last_sat_at       TEXT,
			resolution_note   TEXT,
			resolved_at       TEXT,
			linked_insight_id INTEGER,
			created_at        TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS note_sits (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			note_id    INTEGER NOT NULL,
			sit_note   TEXT    NOT NULL,
			created_at TEXT    NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (note_id) REFERENCES notes(id)
		);

		CREATE TABLE IF NOT EXISTS identity (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			section     TEXT NOT NULL,
			content     TEXT NOT NULL,
			weight      REAL NOT NULL DEFAULT 0.7,
			connections TEXT NOT NULL DEFAULT '',
			created_at  TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS context_entries (
			id         TEXT PRIMARY KEY,
			scope      TEXT NOT NULL,
			content    TEXT NOT NULL,
			links      TEXT NOT NULL DEFAULT '[]',
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS relational_state (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			person    TEXT NOT NULL,
			feeling   TEXT NOT NULL,
			intensity TEXT NOT NULL DEFAULT 'present',
			timestamp TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS subconscious (
			id         INTEGER PRIMARY KEY,
			state_type TEXT    NOT NULL,
			run_id     INTEGER NOT NULL DEFAULT 0,
			data       TEXT    NOT NULL,
			updated_at TEXT    NOT NULL
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// Truncate shortens a string to max length with ellipsis.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// windowExpression converts a duration into a SQLite datetime modifier,
// e.g. 48h → "-2880 minutes".
func windowExpression(window time.Duration) string {
	minutes := int(window.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return "-" + strconv.Itoa(minutes) + " minutes"
}

// normalizeWeight clamps a weight tag to the known set, defaulting to medium.
func normalizeWeight(w string) string {
	switch strings.TrimSpace(strings.ToLower(w)) {
	case WeightLight:
		return WeightLight
	case WeightHeavy:
		return WeightHeavy
	default:
		return WeightMedium
	}
}

// Now returns the current time formatted for SQLite.
func Now() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}
