package sessions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Meta is the sidecar capture metadata of one session. Start/Stop are
// ISO-8601; when both parse and stop is after start, analysis attaches an
// overall event rate to the summary.
type Meta struct {
	SessionID    string `json:"session_id"`
	UUID         string `json:"uuid,omitempty"`
	Start        string `json:"start"`
	Stop         string `json:"stop,omitempty"`
	Probe        string `json:"probe,omitempty"`
	Command      string `json:"command,omitempty"`
	Events       int    `json:"events,omitempty"`
	DroppedLines int    `json:"dropped_lines,omitempty"`
}

func MetaPath(dir string) string { return filepath.Join(dir, MetaFile) }

// WriteMeta persists meta atomically (write tmp, rename).
func WriteMeta(dir string, m Meta) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := MetaPath(dir) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write meta tmp: %w", err)
	}
	if err := os.Rename(tmp, MetaPath(dir)); err != nil {
		return fmt.Errorf("rename meta: %w", err)
	}
	return nil
}

func ReadMeta(dir string) (Meta, error) {
	var m Meta
	b, err := os.ReadFile(MetaPath(dir))
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("decode %s: %w", MetaPath(dir), err)
	}
	return m, nil
}

// Window parses the capture bounds. ok is false unless both bounds parse
// and stop is after start; the caller then just omits the session rate.
func (m Meta) Window() (start, stop time.Time, ok bool) {
	start, err := parseISO(m.Start)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	stop, err = parseISO(m.Stop)
	if err != nil || !stop.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, stop, true
}

func parseISO(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
