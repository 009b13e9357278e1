package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/seregni/tracelens/internal/analyze"
	"github.com/seregni/tracelens/internal/event"
	"github.com/seregni/tracelens/internal/sessions"
)

// WriteSummary persists the summary JSON document next to the event log.
// encoding/json serializes map keys sorted, so identical input yields a
// byte-identical document.
func WriteSummary(dir string, s *analyze.Summary) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	path := filepath.Join(dir, sessions.IndexFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o600); err != nil {
		return fmt.Errorf("write summary tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename summary: %w", err)
	}
	return nil
}

// ReadSummary loads a previously persisted summary.
func ReadSummary(dir string) (*analyze.Summary, error) {
	b, err := os.ReadFile(filepath.Join(dir, sessions.IndexFile))
	if err != nil {
		return nil, err
	}
	var s analyze.Summary
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return &s, nil
}

// BuildIndex (re)builds the sqlite event index of one session.
func BuildIndex(dir string, meta sessions.Meta, events []event.Event) error {
	db, err := OpenSQLite(filepath.Join(dir, sessions.SQLiteFile))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ReplaceSession(meta.SessionID, meta.UUID, meta.Start, meta.Stop, meta.Probe, events); err != nil {
		return fmt.Errorf("index session %s: %w", meta.SessionID, err)
	}
	return nil
}
