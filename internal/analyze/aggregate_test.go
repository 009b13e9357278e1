package analyze

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seregni/tracelens/internal/event"
)

func loadLines(t *testing.T, lines ...string) ([]event.Event, int) {
	t.Helper()
	events, dropped, err := event.ReadLines(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	return events, dropped
}

func TestAggregateSyscallScenario(t *testing.T) {
	events, dropped := loadLines(t,
		`{"type":"syscall","event":"openat","comm":"app","pid":1,"data":{"ret":3,"lat_us":120}}`,
		`{"type":"syscall","event":"openat","comm":"app","pid":1,"data":{"ret":-13,"lat_us":80}}`,
		`not json at all`,
	)
	s := Run(events, dropped, Options{})

	assert.Equal(t, 2, s.TotalEvents)
	assert.Equal(t, 1, s.DroppedLines)
	assert.Equal(t, 2, s.Syscalls.Counts["openat"])
	assert.Equal(t, 1, s.Syscalls.Errors["openat"])
	assert.Equal(t, 0.5, s.Syscalls.ErrorRates["openat"])
	assert.Equal(t, 2, s.LatencyOverall.N)
	assert.Equal(t, 80.0, s.LatencyOverall.MinUS)
	assert.Equal(t, 120.0, s.LatencyOverall.MaxUS)

	assert.Equal(t, map[string]int{"syscall": 2}, s.EventsByType)
	assert.Equal(t, map[string]int{"openat": 2}, s.EventsByName)

	require.Contains(t, s.Processes, "app")
	assert.Equal(t, 2, s.Processes["app"].Total)
	assert.Equal(t, 2, s.Processes["app"].ByEvent["openat"])
}

func TestZeroCountErrorRate(t *testing.T) {
	r := aggregate(nil)
	stats := r.syscallStats()
	assert.Empty(t, stats.ErrorRates)
	// A name present with zero observations must produce rate 0, not NaN.
	r.syscallCounts["read"] = 0
	stats = r.syscallStats()
	assert.Equal(t, 0.0, stats.ErrorRates["read"])
}

func TestTopProcessesTieBrokenByFirstSeen(t *testing.T) {
	events, _ := loadLines(t,
		`{"type":"proc","event":"fork","comm":"zeta","pid":5}`,
		`{"type":"proc","event":"fork","comm":"alpha","pid":6}`,
		`{"type":"proc","event":"fork","comm":"alpha","pid":6}`,
		`{"type":"proc","event":"fork","comm":"beta","pid":7}`,
	)
	r := aggregate(events)
	top := r.topProcesses(10)
	require.Len(t, top, 3)
	assert.Equal(t, ProcessCount{Comm: "alpha", Count: 2}, top[0])
	// zeta and beta tie on count; zeta was seen first.
	assert.Equal(t, "zeta", top[1].Comm)
	assert.Equal(t, "beta", top[2].Comm)

	top = r.topProcesses(2)
	require.Len(t, top, 2)
}

func TestTimelinesAndPidComm(t *testing.T) {
	events, _ := loadLines(t,
		`{"type":"syscall","event":"read","comm":"app","pid":4,"ts":"12:00:01"}`,
		`{"type":"syscall","comm":"app","pid":4,"ts":"12:00:02"}`,
		`{"type":"proc","event":"exit","comm":"app2","pid":4,"ts":"12:00:03"}`,
	)
	r := aggregate(events)
	// The nameless event contributes no timeline entry.
	require.Len(t, r.timelines[4], 2)
	assert.Equal(t, TimelineEntry{TS: "12:00:01", Type: "syscall", Event: "read"}, r.timelines[4][0])
	// Last-seen comm wins.
	assert.Equal(t, "app2", r.pidComm[4])
}

func TestErrorRequiresNegativeInteger(t *testing.T) {
	events, _ := loadLines(t,
		`{"type":"syscall","event":"read","comm":"a","data":{"ret":0}}`,
		`{"type":"syscall","event":"read","comm":"a","data":{"ret":-1.5}}`,
		`{"type":"syscall","event":"read","comm":"a","data":{"ret":"-13"}}`,
		`{"type":"syscall","event":"read","comm":"a","data":{"ret":-4}}`,
	)
	r := aggregate(events)
	assert.Equal(t, 4, r.syscallCounts["read"])
	assert.Equal(t, 1, r.syscallErrors["read"])
}
