package main

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// MatchRow represents a finished match in the history
type MatchRow struct {
	MatchID   string    `json:"id"`
	Mode      int       `json:"mode"`
	Reason    string    `json:"reason"`
	Duration  float64   `json:"duration"`
	Score     int       `json:"score"`
	Rank      int       `json:"rank"`
	Kills     int       `json:"kills"`
	Coins     int       `json:"coins"`
	XPEarned  int       `json:"xp"`
	CreatedAt time.Time `json:"created_at"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer: prefs and the journal share the file
	conn.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS prefs (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS matches (
		match_id TEXT PRIMARY KEY,
		mode INTEGER NOT NULL DEFAULT 0,
		reason TEXT NOT NULL DEFAULT '',
		duration REAL NOT NULL DEFAULT 0,
		score INTEGER NOT NULL DEFAULT 0,
		rank INTEGER NOT NULL DEFAULT 0,
		kills INTEGER NOT NULL DEFAULT 0,
		coins INTEGER NOT NULL DEFAULT 0,
		xp_earned INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS match_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL,
		actor_id INTEGER NOT NULL DEFAULT 0,
		other_id INTEGER NOT NULL DEFAULT 0,
		value INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_match_events_match ON match_events(match_id);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Error("db migration failed", "err", err)
	}
	return err
}

// GetString returns a preference, or def when it is unset or unreadable
func (db *DB) GetString(key, def string) string {
	var v string
	err := db.conn.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return def
	}
	if err != nil {
		log.Error("pref read failed", "key", key, "err", err)
		return def
	}
	return v
}

// SetString stores a preference
func (db *DB) SetString(key, v string) error {
	_, err := db.conn.Exec(
		"INSERT INTO prefs (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, v,
	)
	if err != nil {
		return fmt.Errorf("set pref %s: %w", key, err)
	}
	return nil
}

// GetInt returns an integer preference, or def
func (db *DB) GetInt(key string, def int) int {
	v, err := strconv.Atoi(db.GetString(key, ""))
	if err != nil {
		return def
	}
	return v
}

// SetInt stores an integer preference
func (db *DB) SetInt(key string, v int) error {
	return db.SetString(key, strconv.Itoa(v))
}

// RecordMatch appends a finished match to the history
func (db *DB) RecordMatch(r MatchResult) error {
	_, err := db.conn.Exec(
		`INSERT INTO matches (match_id, mode, reason, duration, score, rank, kills, coins, xp_earned)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.MatchID, int(r.Mode), string(r.Reason), r.Duration, r.Score, r.Rank, r.Kills, r.Coins, r.XPEarned,
	)
	if err != nil {
		return fmt.Errorf("record match: %w", err)
	}
	return nil
}

// MatchHistory returns the most recent matches, newest first
func (db *DB) MatchHistory(limit int) ([]MatchRow, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, mode, reason, duration, score, rank, kills, coins, xp_earned, created_at
		FROM matches ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MatchRow
	for rows.Next() {
		var m MatchRow
		if err := rows.Scan(&m.MatchID, &m.Mode, &m.Reason, &m.Duration, &m.Score, &m.Rank, &m.Kills, &m.Coins, &m.XPEarned, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// EventCounts returns how many journal rows of each kind a match produced
func (db *DB) EventCounts(matchID string) (map[string]int, error) {
	rows, err := db.conn.Query(`
		SELECT kind, COUNT(*) FROM match_events WHERE match_id = ? GROUP BY kind`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		result[kind] = n
	}
	return result, rows.Err()
}
