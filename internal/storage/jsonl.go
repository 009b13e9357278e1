package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// LineWriter appends validated JSON lines to the capture log. The capture
// goroutines for stdout and teardown share one writer, hence the lock.
type LineWriter struct {
	mu sync.Mutex
	f  *os.File
	w  *bufio.Writer
}

func NewLineWriter(path string) (*LineWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &LineWriter{f: f, w: bufio.NewWriterSize(f, 256*1024)}, nil
}

// WriteLine re-serializes one JSON line compactly and appends it.
func (lw *LineWriter) WriteLine(line []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, line); err != nil {
		return fmt.Errorf("compact line: %w", err)
	}

	lw.mu.Lock()
	defer lw.mu.Unlock()
	if _, err := lw.w.Write(buf.Bytes()); err != nil {
		return err
	}
	return lw.w.WriteByte('\n')
}

func (lw *LineWriter) Close() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	var ret error
	if lw.w != nil {
		if err := lw.w.Flush(); err != nil {
			ret = err
		}
		lw.w = nil
	}
	if lw.f != nil {
		if err := lw.f.Close(); err != nil && ret == nil {
			ret = err
		}
		lw.f = nil
	}
	return ret
}
