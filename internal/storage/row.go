// Package storage persists session artifacts: the captured JSONL event log,
// the sqlite event index serving the query command, and the summary JSON
// document.
package storage

import (
	"encoding/json"

	"github.com/seregni/tracelens/internal/event"
)

// EventRow is the indexed (flattened) form of one event. Optional numeric
// fields use -1 as the absent marker in the index; Data keeps the original
// open payload as JSON text.
type EventRow struct {
	SessionID string `json:"session_id"`
	Seq       int64  `json:"seq"`
	TS        string `json:"ts,omitempty"`
	TSNS      int64  `json:"ts_ns,omitempty"`
	HasTSNS   bool   `json:"has_ts_ns,omitempty"`
	Type      string `json:"type"`
	Event     string `json:"event"`
	Comm      string `json:"comm,omitempty"`
	PID       int    `json:"pid"`
	TID       int    `json:"tid"`
	PPID      int    `json:"ppid"`
	Decoded   string `json:"decoded,omitempty"`
	DataJSON  string `json:"data,omitempty"`
}

// RowFromEvent flattens a normalized event for indexing. seq is the
// position in the ordered sequence.
func RowFromEvent(sessionID string, seq int64, ev event.Event) EventRow {
	row := EventRow{
		SessionID: sessionID,
		Seq:       seq,
		TS:        ev.TS,
		Type:      ev.Type,
		Event:     ev.Name,
		Comm:      ev.Comm,
		PID:       -1,
		TID:       -1,
		PPID:      -1,
		Decoded:   ev.Decoded,
	}
	if ev.HasTSNS {
		row.TSNS, row.HasTSNS = ev.TSNS, true
	}
	if ev.HasPID {
		row.PID = ev.PID
	}
	if ev.HasTID {
		row.TID = ev.TID
	}
	if ev.HasPPID {
		row.PPID = ev.PPID
	}
	if len(ev.Data) > 0 {
		if b, err := json.Marshal(ev.Data); err == nil {
			row.DataJSON = string(b)
		}
	}
	return row
}
