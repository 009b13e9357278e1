package storage

import (
	"fmt"
	"strings"

	"github.com/seregni/tracelens/internal/event"
)

// QueryOptions filters the indexed events of one session. PID < 0 means
// "any pid".
type QueryOptions struct {
	SessionID string
	Type      string
	Event     string
	Comm      string
	PID       int
	Limit     int
}

func (o QueryOptions) normalized() QueryOptions {
	o.Type = strings.TrimSpace(o.Type)
	o.Event = strings.TrimSpace(o.Event)
	o.Comm = strings.TrimSpace(o.Comm)
	if o.Limit <= 0 || o.Limit > 100000 {
		o.Limit = 100000
	}
	return o
}

// Query returns matching rows ordered by sequence.
func (s *SQLite) Query(opts QueryOptions) ([]EventRow, error) {
	opts = opts.normalized()

	where := []string{`session_id=?`}
	args := []any{opts.SessionID}
	if opts.Type != "" {
		where = append(where, `type=?`)
		args = append(args, opts.Type)
	}
	if opts.Event != "" {
		where = append(where, `event=?`)
		args = append(args, opts.Event)
	}
	if opts.Comm != "" {
		where = append(where, `comm=?`)
		args = append(args, opts.Comm)
	}
	if opts.PID >= 0 {
		where = append(where, `pid=?`)
		args = append(args, opts.PID)
	}
	args = append(args, opts.Limit)

	q := fmt.Sprintf(
		`SELECT session_id, seq, ts, ts_ns, has_ts_ns, type, event, comm, pid, tid, ppid, decoded, data_json
		 FROM events WHERE %s ORDER BY seq LIMIT ?`,
		strings.Join(where, " AND "),
	)
	rows, err := s.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	out := make([]EventRow, 0, 64)
	for rows.Next() {
		var r EventRow
		var hasTS int
		if err := rows.Scan(
			&r.SessionID, &r.Seq, &r.TS, &r.TSNS, &hasTS,
			&r.Type, &r.Event, &r.Comm, &r.PID, &r.TID, &r.PPID,
			&r.Decoded, &r.DataJSON,
		); err != nil {
			return nil, err
		}
		r.HasTSNS = hasTS != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// FilterEvents is the in-memory fallback used when no sqlite index exists
// for a session; it applies the same filters to the raw event sequence.
func FilterEvents(sessionID string, events []event.Event, opts QueryOptions) []EventRow {
	opts = opts.normalized()

	out := make([]EventRow, 0, 64)
	for i, ev := range events {
		if opts.Type != "" && ev.Type != opts.Type {
			continue
		}
		if opts.Event != "" && ev.Name != opts.Event {
			continue
		}
		if opts.Comm != "" && ev.Comm != opts.Comm {
			continue
		}
		if opts.PID >= 0 && (!ev.HasPID || ev.PID != opts.PID) {
			continue
		}
		out = append(out, RowFromEvent(sessionID, int64(i), ev))
		if len(out) >= opts.Limit {
			break
		}
	}
	return out
}
