package cliui

import (
	"fmt"
	"strings"
	"time"
)

// FormatNS renders a monotonic nanosecond timestamp as seconds since an
// arbitrary origin, the way bpftrace's nsecs reads.
func FormatNS(ns int64) string {
	return Seconds(time.Duration(ns))
}

// Seconds renders a duration as trimmed fractional seconds ("1.25s").
func Seconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	s := fmt.Sprintf("%.3f", sec)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" {
		s = "0"
	}
	return s + "s"
}

// Rate renders an events-per-second figure.
func Rate(v float64) string {
	return fmt.Sprintf("%.1f/s", v)
}

// Percent renders a 0..1 ratio as a percentage.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// Micros renders a microsecond latency value, trimming integral values.
func Micros(us float64) string {
	if us == float64(int64(us)) {
		return fmt.Sprintf("%dus", int64(us))
	}
	return fmt.Sprintf("%.1fus", us)
}

// Bytes renders a byte count with a binary unit suffix.
func Bytes(n int64) string {
	const k = 1024
	switch {
	case n >= k*k*k:
		return fmt.Sprintf("%.1fGiB", float64(n)/(k*k*k))
	case n >= k*k:
		return fmt.Sprintf("%.1fMiB", float64(n)/(k*k))
	case n >= k:
		return fmt.Sprintf("%.1fKiB", float64(n)/k)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
