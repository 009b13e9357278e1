package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapResources(t *testing.T) {
	events, _ := loadLines(t,
		`{"type":"syscall","event":"openat","comm":"app","decoded":"/etc/hosts"}`,
		`{"type":"syscall","event":"openat","comm":"app","decoded":"/etc/hosts"}`,
		`{"type":"syscall","event":"openat","comm":"app","decoded":"/data/cache.db"}`,
		`{"type":"syscall","event":"connect","comm":"app","decoded":"10.0.0.5:443"}`,
		`{"type":"syscall","event":"execve","comm":"sh","decoded":"/bin/ls"}`,
		`{"type":"syscall","event":"read","comm":"app","decoded":"fd:3"}`,
		`{"type":"syscall","event":"openat","comm":"app"}`,
		`{"type":"binder","event":"openat","comm":"app","decoded":"/nope"}`,
	)
	res := mapResources(events)

	require.Contains(t, res, "app")
	// Sorted and deduplicated.
	assert.Equal(t, []string{"/data/cache.db", "/etc/hosts"}, res["app"][ResourceFileOpen])
	assert.Equal(t, []string{"10.0.0.5:443"}, res["app"][ResourceNetConnect])

	require.Contains(t, res, "sh")
	assert.Equal(t, []string{"/bin/ls"}, res["sh"][ResourceProcessExec])

	// "read" has no resource kind; empty decoded and non-syscall types skip.
	assert.NotContains(t, res["app"], "read")
	assert.Len(t, res["app"], 2)
}

func TestMapResourcesUnknownComm(t *testing.T) {
	events, _ := loadLines(t,
		`{"type":"syscall","event":"connect","decoded":"1.2.3.4:80"}`,
	)
	res := mapResources(events)
	require.Contains(t, res, "unknown")
	assert.Equal(t, []string{"1.2.3.4:80"}, res["unknown"][ResourceNetConnect])
}
