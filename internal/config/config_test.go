package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(1000000000), cfg.RateWindowNS)
	assert.Equal(t, 10, cfg.TopProcesses)
	assert.Equal(t, 20, cfg.TopSlowest)
	assert.Equal(t, 25, cfg.TimelineCap)
	assert.Equal(t, "bpftrace", cfg.Tracer)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TRACELENS_HOME", "/tmp/tl")
	t.Setenv("TRACELENS_RATE_WINDOW_NS", "500000000")
	t.Setenv("TRACELENS_TOP_PROCESSES", "3")

	cfg, err := Load()
	require.NoError(t, err)

	home, err := cfg.HomeDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tl", home)

	opts := cfg.AnalyzeOptions()
	assert.Equal(t, int64(500000000), opts.WindowNS)
	assert.Equal(t, 3, opts.TopProcesses)
}
