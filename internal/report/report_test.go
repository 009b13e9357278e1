package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seregni/tracelens/internal/analyze"
	"github.com/seregni/tracelens/internal/event"
	"github.com/seregni/tracelens/internal/sessions"
)

func sampleSummary(t *testing.T) *analyze.Summary {
	t.Helper()
	lines := strings.Join([]string{
		`{"type":"syscall","event":"openat","comm":"app","pid":1,"ppid":0,"ts":"10:00:00","ts_ns":1000000000,"data":{"ret":3,"lat_us":120},"decoded":"/etc/hosts"}`,
		`{"type":"syscall","event":"openat","comm":"app","pid":1,"ts":"10:00:01","ts_ns":1200000000,"data":{"ret":-13,"lat_us":80}}`,
		`{"type":"binder","event":"binder_transaction","comm":"app","pid":1,"ts_ns":2000000000,"data":{"debug_id":7,"to_pid":2,"code":1}}`,
		`{"type":"binder","event":"binder_transaction_alloc_buf","pid":1,"ts_ns":2000001000,"data":{"debug_id":7,"data_size":64}}`,
		`{"type":"binder","event":"binder_transaction_received","comm":"svc","pid":2,"ppid":1,"ts_ns":2000002000,"data":{"debug_id":7}}`,
	}, "\n")
	events, dropped, err := event.ReadLines(strings.NewReader(lines))
	require.NoError(t, err)
	return analyze.Run(events, dropped, analyze.Options{})
}

func TestRenderSections(t *testing.T) {
	s := sampleSummary(t)
	var b strings.Builder
	Render(&b, s, sessions.Meta{SessionID: "20260301-100000", Probe: "syscalls.bt"}, Options{})
	out := b.String()

	for _, want := range []string{
		"SESSION SUMMARY",
		"Session: 20260301-100000",
		"Total events: 5",
		"Time / rate:",
		"Events by type:",
		"Top processes:",
		"Syscalls:",
		"Latency overall (us):",
		"Slowest syscalls:",
		"Processes by p95 latency:",
		"Failures by errno:",
		"Timelines:",
		"IPC (binder):",
		"app → svc",
		"Process tree:",
		"Resources:",
		"/etc/hosts",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "```")
}

func TestRenderFenced(t *testing.T) {
	s := sampleSummary(t)
	var b strings.Builder
	Render(&b, s, sessions.Meta{}, Options{Fenced: true})
	out := b.String()
	assert.True(t, strings.HasPrefix(out, "```text\n"))
	assert.True(t, strings.HasSuffix(out, "```\n"))
}

func TestRenderTimelineCap(t *testing.T) {
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, `{"type":"syscall","event":"read","comm":"busy","pid":3,"ts":"t"}`)
	}
	events, _, err := event.ReadLines(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	s := analyze.Run(events, 0, analyze.Options{})

	var b strings.Builder
	Render(&b, s, sessions.Meta{}, Options{TimelineCap: 25})
	out := b.String()
	assert.Contains(t, out, "...")
	assert.Equal(t, 25, strings.Count(out, "syscall read"))
}

func TestRenderUnavailableRate(t *testing.T) {
	events, _, err := event.ReadLines(strings.NewReader(`{"type":"syscall","event":"read","comm":"a","pid":1}`))
	require.NoError(t, err)
	s := analyze.Run(events, 0, analyze.Options{})

	var b strings.Builder
	Render(&b, s, sessions.Meta{}, Options{})
	assert.Contains(t, b.String(), "rate analysis unavailable: fewer than two events carry ts_ns")
}
