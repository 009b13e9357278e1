package cliui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	var b strings.Builder
	RenderTable(&b,
		[]Column{{Name: "name"}, {Name: "count", AlignRight: true}},
		[][]string{{"openat", "12"}, {"read", "3"}},
	)
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "name    count", lines[0])
	assert.Equal(t, "openat     12", lines[2])
	assert.Equal(t, "read        3", lines[3])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdefgh", 5))
	assert.Equal(t, "abc", Truncate("abcdefgh", 3))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "1.25s", Seconds(1250*time.Millisecond))
	assert.Equal(t, "2s", Seconds(2*time.Second))
	assert.Equal(t, "1.5s", FormatNS(1500000000))
	assert.Equal(t, "50.0%", Percent(0.5))
	assert.Equal(t, "120us", Micros(120))
	assert.Equal(t, "80.5us", Micros(80.5))
	assert.Equal(t, "64B", Bytes(64))
	assert.Equal(t, "1.5KiB", Bytes(1536))
}
