package event

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseLine decodes one log line into an Event. It reports ok=false for
// blank lines, invalid JSON, non-object values and trailing garbage; the
// caller drops those. Numbers are kept as json.Number so nanosecond
// timestamps survive without float rounding.
func ParseLine(line []byte) (Event, bool) {
	if len(bytes.TrimSpace(line)) == 0 {
		return Event{}, false
	}
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Event{}, false
	}
	if dec.More() {
		return Event{}, false
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Event{}, false
	}
	return normalize(obj), true
}

// ReadLines parses a JSONL stream in arrival order. Unparsable lines are
// dropped silently and only counted: the tracer's own diagnostics can be
// interleaved with event output, so a bad line is not an error.
func ReadLines(r io.Reader) (events []Event, dropped int, err error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 8*1024*1024)
	events = make([]Event, 0, 1024)
	for s.Scan() {
		if strings.TrimSpace(s.Text()) == "" {
			continue
		}
		ev, ok := ParseLine(s.Bytes())
		if !ok {
			dropped++
			continue
		}
		events = append(events, ev)
	}
	if err := s.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan events: %w", err)
	}
	return events, dropped, nil
}

// ReadLog loads an event log from disk. An unreadable or absent log is the
// one fatal condition of the whole pipeline.
func ReadLog(path string) ([]Event, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	events, dropped, err := ReadLines(f)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	return events, dropped, nil
}
