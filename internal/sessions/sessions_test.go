package sessions

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDCollision(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, EnsureHome(home))
	now := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	id, err := NewID(home, now)
	require.NoError(t, err)
	assert.Equal(t, "20260301-103000", id)

	require.NoError(t, os.MkdirAll(Dir(home, id), 0o700))
	id2, err := NewID(home, now)
	require.NoError(t, err)
	assert.Equal(t, "20260301-103000-2", id2)
}

func TestMetaRoundtripAndWindow(t *testing.T) {
	dir := t.TempDir()
	m := Meta{
		SessionID: "20260301-103000",
		UUID:      "d1c95a1e-0000-0000-0000-000000000000",
		Start:     "2026-03-01T10:30:00Z",
		Stop:      "2026-03-01T10:30:05Z",
		Probe:     "syscalls.bt",
		Events:    42,
	}
	require.NoError(t, WriteMeta(dir, m))

	got, err := ReadMeta(dir)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	start, stop, ok := got.Window()
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, stop.Sub(start))
}

func TestMetaWindowUnavailable(t *testing.T) {
	_, _, ok := Meta{Start: "2026-03-01T10:30:00Z"}.Window()
	assert.False(t, ok)
	_, _, ok = Meta{Start: "garbage", Stop: "2026-03-01T10:30:05Z"}.Window()
	assert.False(t, ok)
	_, _, ok = Meta{Start: "2026-03-01T10:30:05Z", Stop: "2026-03-01T10:30:00Z"}.Window()
	assert.False(t, ok)
}

func TestResolveLast(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, EnsureHome(home))
	require.NoError(t, os.MkdirAll(Dir(home, "20260301-100000"), 0o700))
	require.NoError(t, os.MkdirAll(Dir(home, "20260301-110000"), 0o700))

	id, dir, err := Resolve(home, "last")
	require.NoError(t, err)
	assert.Equal(t, "20260301-110000", id)
	assert.Equal(t, Dir(home, id), dir)

	_, _, err = Resolve(home, "20260101-000000")
	assert.Error(t, err)

	ids, err := List(home)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260301-100000", "20260301-110000"}, ids)
}
