package storage

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/seregni/tracelens/internal/event"

	_ "modernc.org/sqlite"
)

type SQLite struct {
	DB *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	uuid       TEXT,
	start_ts   TEXT,
	stop_ts    TEXT,
	probe      TEXT,
	events     INTEGER
);
CREATE TABLE IF NOT EXISTS events (
	session_id TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	ts         TEXT,
	ts_ns      INTEGER,
	has_ts_ns  INTEGER NOT NULL,
	type       TEXT,
	event      TEXT,
	comm       TEXT,
	pid        INTEGER,
	tid        INTEGER,
	ppid       INTEGER,
	decoded    TEXT,
	data_json  TEXT,
	PRIMARY KEY (session_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_events_type ON events(session_id, type);
CREATE INDEX IF NOT EXISTS idx_events_comm ON events(session_id, comm);
CREATE INDEX IF NOT EXISTS idx_events_pid  ON events(session_id, pid);
`

func OpenSQLite(path string) (*SQLite, error) {
	// Some environments restrict SQLite creating new files; pre-create the
	// DB file to avoid SQLITE_CANTOPEN.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("precreate sqlite db %s: %w", path, err)
	}
	_ = f.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{DB: db}, nil
}

func OpenSQLiteReadOnly(path string) (*SQLite, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat sqlite db: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &SQLite{DB: db}, nil
}

func (s *SQLite) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// ReplaceSession rewrites the session row and every event of the session in
// one transaction. Re-analyzing a session rebuilds its index from scratch.
func (s *SQLite) ReplaceSession(id, uuid, start, stop, probe string, events []event.Event) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM events WHERE session_id=?`, id); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO sessions (id, uuid, start_ts, stop_ts, probe, events) VALUES (?,?,?,?,?,?)`,
		id, uuid, start, stop, probe, len(events),
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO events (session_id, seq, ts, ts_ns, has_ts_ns, type, event, comm, pid, tid, ppid, decoded, data_json)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, ev := range events {
		row := RowFromEvent(id, int64(i), ev)
		hasTS := 0
		if row.HasTSNS {
			hasTS = 1
		}
		if _, err := stmt.Exec(
			row.SessionID, row.Seq, row.TS, row.TSNS, hasTS,
			row.Type, row.Event, row.Comm, row.PID, row.TID, row.PPID,
			row.Decoded, row.DataJSON,
		); err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}
	}
	return tx.Commit()
}
