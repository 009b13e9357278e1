package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentileEndpoints(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, percentile(sorted, 0.0))
	assert.Equal(t, 5.0, percentile(sorted, 1.0))
	assert.Equal(t, 3.0, percentile(sorted, 0.5))
	assert.Equal(t, 0.0, percentile(nil, 0.5))
}

func TestPercentileMonotonic(t *testing.T) {
	sorted := []float64{3, 7, 7, 12, 80, 81, 95, 120}
	prev := percentile(sorted, 0)
	for p := 0.0; p <= 1.0; p += 0.01 {
		v := percentile(sorted, p)
		assert.GreaterOrEqual(t, v, prev, "p=%f", p)
		prev = v
	}
}

func TestDistOfNearestRank(t *testing.T) {
	d := distOf([]float64{120, 80})
	assert.Equal(t, 2, d.N)
	assert.Equal(t, 80.0, d.MinUS)
	assert.Equal(t, 120.0, d.MaxUS)
	// floor(0.5 * 1) = 0 → the lower sample.
	assert.Equal(t, 80.0, d.P50US)
	assert.Equal(t, 80.0, d.P95US)
}

func TestDeepDiveSlowestStableTies(t *testing.T) {
	events, _ := loadLines(t,
		`{"type":"syscall","event":"read","comm":"a","pid":1,"ts":"t1","data":{"lat_us":50}}`,
		`{"type":"syscall","event":"write","comm":"b","pid":2,"ts":"t2","data":{"lat_us":90}}`,
		`{"type":"syscall","event":"openat","comm":"c","pid":3,"ts":"t3","data":{"lat_us":90}}`,
		`{"type":"syscall","event":"close","comm":"d","pid":4,"data":{"ret":0}}`,
	)
	d := deepDive(events, Options{}.withDefaults())
	require.Len(t, d.Slowest, 3)
	// 90us tie: first occurrence (write) wins.
	assert.Equal(t, "write", d.Slowest[0].Name)
	assert.Equal(t, "openat", d.Slowest[1].Name)
	assert.Equal(t, "read", d.Slowest[2].Name)
}

func TestDeepDiveProcessRanking(t *testing.T) {
	events, _ := loadLines(t,
		`{"type":"syscall","event":"read","comm":"fast","data":{"lat_us":1}}`,
		`{"type":"syscall","event":"read","comm":"fast","data":{"lat_us":2}}`,
		`{"type":"syscall","event":"read","comm":"slow","data":{"lat_us":500}}`,
		`{"type":"syscall","event":"read","comm":"unmeasured","data":{"ret":0}}`,
	)
	d := deepDive(events, Options{}.withDefaults())
	require.Len(t, d.ProcessRanking, 3)
	assert.Equal(t, "slow", d.ProcessRanking[0].Comm)
	assert.Equal(t, "fast", d.ProcessRanking[1].Comm)
	// No latency samples sorts last.
	assert.Equal(t, "unmeasured", d.ProcessRanking[2].Comm)
	assert.Equal(t, 0, d.ProcessRanking[2].N)
}

func TestDeepDiveErrnoBreakdown(t *testing.T) {
	events, _ := loadLines(t,
		`{"type":"syscall","event":"openat","comm":"a","data":{"ret":-13}}`,
		`{"type":"syscall","event":"openat","comm":"a","data":{"ret":-13}}`,
		`{"type":"syscall","event":"openat","comm":"a","data":{"ret":-2}}`,
		`{"type":"syscall","event":"connect","comm":"a","data":{"ret":-111}}`,
		`{"type":"syscall","event":"read","comm":"a","data":{"ret":7}}`,
	)
	d := deepDive(events, Options{}.withDefaults())
	require.Len(t, d.ErrnoGlobal, 3)
	assert.Equal(t, ErrnoCount{Errno: 13, Count: 2}, d.ErrnoGlobal[0])

	require.Contains(t, d.ErrnoBySyscall, "openat")
	assert.Equal(t, ErrnoCount{Errno: 13, Count: 2}, d.ErrnoBySyscall["openat"][0])
	require.Contains(t, d.ErrnoBySyscall, "connect")
	assert.NotContains(t, d.ErrnoBySyscall, "read")
}
