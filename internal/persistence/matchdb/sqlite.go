// Package matchdb stores finished matches in a local SQLite database.
// It is a read-model for the status surface: writes are queued and
// applied by a single writer goroutine so the simulation never waits
// on disk.
package matchdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"riftarena.io/internal/sim/arena"
)

type Store struct {
	db *sql.DB

	ch   chan arena.MatchSummary
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db: db,
		// Matches finish rarely; a small buffer absorbs any burst of
		// simultaneous room endings.
		ch: make(chan arena.MatchSummary, 256),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads. NORMAL is a fair
	// durability/perf tradeoff for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL,
	started_at TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	entities INTEGER NOT NULL,
	winner_id TEXT,
	winner_name TEXT,
	winner_score INTEGER,
	rankings_json TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_matches_code ON matches(code);
`
	_, err := db.Exec(schema)
	return err
}

// RecordMatch queues a summary for the writer goroutine. It never
// blocks: if the queue is saturated the summary is dropped, which only
// loses a row in the read-model.
func (s *Store) RecordMatch(m arena.MatchSummary) error {
	if s.closed.Load() {
		return fmt.Errorf("matchdb closed")
	}
	select {
	case s.ch <- m:
		return nil
	default:
		return fmt.Errorf("matchdb queue full")
	}
}

func (s *Store) loop() {
	for m := range s.ch {
		s.write(m)
	}
}

func (s *Store) write(m arena.MatchSummary) {
	rankings, err := json.Marshal(m.Rankings)
	if err != nil {
		return
	}
	var winID, winName string
	var winScore int
	if len(m.Rankings) > 0 {
		winID = m.Rankings[0].ID
		winName = m.Rankings[0].Name
		winScore = m.Rankings[0].Score
	}
	_, _ = s.db.Exec(
		`INSERT INTO matches (code, started_at, duration_ms, entities, winner_id, winner_name, winner_score, rankings_json, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Code,
		m.StartedAt.UTC().Format(time.RFC3339Nano),
		m.DurationMs,
		len(m.Rankings),
		winID,
		winName,
		winScore,
		string(rankings),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
}

// MatchRow is the /status view of one recorded match.
type MatchRow struct {
	Code        string `json:"code"`
	StartedAt   string `json:"started_at"`
	DurationMs  int64  `json:"duration_ms"`
	Entities    int    `json:"entities"`
	WinnerID    string `json:"winner_id"`
	WinnerName  string `json:"winner_name"`
	WinnerScore int    `json:"winner_score"`
}

// RecentMatches returns the latest n recorded matches, newest first.
func (s *Store) RecentMatches(n int) ([]MatchRow, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.db.Query(
		`SELECT code, started_at, duration_ms, entities, winner_id, winner_name, winner_score
		 FROM matches ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchRow
	for rows.Next() {
		var r MatchRow
		if err := rows.Scan(&r.Code, &r.StartedAt, &r.DurationMs, &r.Entities, &r.WinnerID, &r.WinnerName, &r.WinnerScore); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close drains the queue and closes the database.
func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}
