package event

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Data is the open per-event payload. The tracer emits different field sets
// per event kind, so values are extracted with type-checked helpers instead
// of a fixed schema; a value of the wrong shape is treated as absent.
type Data map[string]any

// Event is one normalized record from the tracer's JSONL stream.
//
// pid/tid/ppid carry presence flags because 0 is a valid pid (swapper) and
// the tracer omits fields it did not capture.
type Event struct {
	Type    string
	Name    string // the "event" field: specific probe name
	Comm    string
	PID     int
	HasPID  bool
	TID     int
	HasTID  bool
	PPID    int
	HasPPID bool
	TS      string // display timestamp, opaque
	TSNS    int64  // monotonic nanoseconds, valid only when HasTSNS
	HasTSNS bool
	Decoded string
	Data    Data // never nil after normalization
}

// Int returns the value under key when it is an integer-shaped JSON number.
// Strings are not accepted here; return codes and sizes are emitted as
// numbers by the tracer.
func (d Data) Int(key string) (int64, bool) {
	v, ok := d[key]
	if !ok {
		return 0, false
	}
	return asInt(v)
}

// Float returns the value under key when it is numeric (integer or float).
func (d Data) Float(key string) (float64, bool) {
	v, ok := d[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// String returns the value under key when it is a string.
func (d Data) String(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Flag reports whether key holds a truthy value: a non-zero number or true.
// Tracer probes emit flags like oneway/reply as 0/1.
func (d Data) Flag(key string) bool {
	v, ok := d[key]
	if !ok {
		return false
	}
	switch n := v.(type) {
	case bool:
		return n
	case json.Number:
		f, err := n.Float64()
		return err == nil && f != 0
	case float64:
		return n != 0
	case int:
		return n != 0
	case int64:
		return n != 0
	}
	return false
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		// Integral floats (e.g. 3.0) still count as integers.
		if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
			return int64(f), true
		}
		return 0, false
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
		return 0, false
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

// asTimestampNS accepts the ts_ns field in either of the shapes the tracer
// produces: a JSON number or a numeric string.
func asTimestampNS(v any) (int64, bool) {
	if i, ok := asInt(v); ok {
		return i, true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// normalize shapes a decoded JSON object into an Event. Fields of the wrong
// type are treated as absent; data defaults to an empty map.
func normalize(obj map[string]any) Event {
	ev := Event{Data: Data{}}
	if s, ok := obj["type"].(string); ok {
		ev.Type = s
	}
	if s, ok := obj["event"].(string); ok {
		ev.Name = s
	}
	if s, ok := obj["comm"].(string); ok {
		ev.Comm = s
	}
	if s, ok := obj["ts"].(string); ok {
		ev.TS = s
	}
	if s, ok := obj["decoded"].(string); ok {
		ev.Decoded = s
	}
	if v, ok := obj["pid"]; ok {
		if i, ok := asInt(v); ok {
			ev.PID, ev.HasPID = int(i), true
		}
	}
	if v, ok := obj["tid"]; ok {
		if i, ok := asInt(v); ok {
			ev.TID, ev.HasTID = int(i), true
		}
	}
	if v, ok := obj["ppid"]; ok {
		if i, ok := asInt(v); ok {
			ev.PPID, ev.HasPPID = int(i), true
		}
	}
	if v, ok := obj["ts_ns"]; ok {
		if ns, ok := asTimestampNS(v); ok {
			ev.TSNS, ev.HasTSNS = ns, true
		}
	}
	if m, ok := obj["data"].(map[string]any); ok {
		ev.Data = Data(m)
	}
	return ev
}
