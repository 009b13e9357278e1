// Package sessions manages the on-disk layout of captured trace sessions:
// <home>/sessions/<id>/ holding events.jsonl, stderr.log, meta.json and the
// derived index.json / index.sqlite artifacts.
package sessions

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	EventsFile = "events.jsonl"
	StderrFile = "stderr.log"
	MetaFile   = "meta.json"
	IndexFile  = "index.json"
	SQLiteFile = "index.sqlite"
)

// EnsureHome creates the sessions base directory under home.
func EnsureHome(home string) error {
	if err := os.MkdirAll(filepath.Join(home, "sessions"), 0o700); err != nil {
		return fmt.Errorf("create sessions dir: %w", err)
	}
	return nil
}

// Dir returns the directory of one session.
func Dir(home, id string) string {
	return filepath.Join(home, "sessions", id)
}
