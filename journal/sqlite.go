package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteJournal is a Recorder backed by a sqlite database file.
type SQLiteJournal struct {
	mu  sync.Mutex
	db  *sql.DB
	seq uint64
}

// Compile-time interface check.
var _ Recorder = (*SQLiteJournal)(nil)

// OpenSQLiteJournal opens or creates the journal database at dbPath.
func OpenSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}

	j := &SQLiteJournal{db: db}
	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: migrate: %w", err)
	}
	if err := j.loadSeq(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: load sequence: %w", err)
	}
	return j, nil
}

// Close closes the underlying database.
func (j *SQLiteJournal) Close() error { return j.db.Close() }

func (j *SQLiteJournal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL,
		actor TEXT NOT NULL DEFAULT '',
		units TEXT NOT NULL DEFAULT '[]',
		amount TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	CREATE INDEX IF NOT EXISTS idx_events_actor ON events(actor);
	`
	_, err := j.db.Exec(schema)
	return err
}

func (j *SQLiteJournal) loadSeq() error {
	row := j.db.QueryRow(`SELECT COALESCE(MAX(seq), 0) FROM events`)
	return row.Scan(&j.seq)
}

// Record appends an event, assigning ID, Seq, and At.
func (j *SQLiteJournal) Record(e Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.seq++
	e.Seq = j.seq
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	units, err := json.Marshal(e.Units)
	if err != nil {
		j.seq--
		return fmt.Errorf("journal: encode units: %w", err)
	}
	_, err = j.db.Exec(
		`INSERT INTO events (seq, id, kind, actor, units, amount, note, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Seq, e.ID, string(e.Kind), e.Actor, string(units), e.Amount, e.Note, e.At,
	)
	if err != nil {
		j.seq--
		return fmt.Errorf("journal: insert event: %w", err)
	}
	return nil
}

// Events returns all recorded events in sequence order.
func (j *SQLiteJournal) Events() ([]Event, error) {
	rows, err := j.db.Query(
		`SELECT seq, id, kind, actor, units, amount, note, at FROM events ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("journal: query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var kind, units string
		if err := rows.Scan(&e.Seq, &e.ID, &kind, &e.Actor, &units, &e.Amount, &e.Note, &e.At); err != nil {
			return nil, fmt.Errorf("journal: scan event: %w", err)
		}
		e.Kind = Kind(kind)
		if err := json.Unmarshal([]byte(units), &e.Units); err != nil {
			return nil, fmt.Errorf("journal: decode units: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterate events: %w", err)
	}
	return events, nil
}
