package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPCCorrelateEndToEnd(t *testing.T) {
	events, _ := loadLines(t,
		`{"type":"binder","event":"binder_transaction","comm":"A","pid":10,"data":{"debug_id":7,"to_pid":20,"code":3,"oneway":0}}`,
		`{"type":"binder","event":"binder_transaction_alloc_buf","comm":"A","pid":10,"data":{"debug_id":7,"data_size":64}}`,
		`{"type":"binder","event":"binder_transaction_received","comm":"B","pid":20,"data":{"debug_id":7}}`,
	)
	ipc := correlateIPC(events)

	assert.Equal(t, 1, ipc.Transactions)
	assert.Equal(t, 0, ipc.Oneway)
	assert.Equal(t, 1, ipc.Sync)
	assert.Equal(t, int64(64), ipc.TotalBytes)

	require.Len(t, ipc.Edges, 1)
	edge := ipc.Edges[0]
	assert.Equal(t, "A", edge.From)
	assert.Equal(t, "B", edge.To)
	assert.Equal(t, 1, edge.Count)
	assert.Equal(t, int64(64), edge.TotalBytes)
	require.Len(t, edge.Codes, 1)
	assert.Equal(t, CodeCount{Code: 3, Count: 1}, edge.Codes[0])
}

func TestIPCReceiverFallbacks(t *testing.T) {
	events, _ := loadLines(t,
		`{"type":"binder","event":"binder_transaction","comm":"A","pid":10,"data":{"debug_id":1,"to_pid":20}}`,
		`{"type":"binder","event":"binder_transaction","comm":"A","pid":10,"data":{"debug_id":2}}`,
	)
	ipc := correlateIPC(events)
	require.Len(t, ipc.Edges, 2)
	tos := []string{ipc.Edges[0].To, ipc.Edges[1].To}
	assert.Contains(t, tos, "pid:20")
	assert.Contains(t, tos, "unknown")
	// Unmatched allocation means 0 bytes, not a failure.
	assert.Equal(t, int64(0), ipc.TotalBytes)
}

func TestIPCRepliesExcluded(t *testing.T) {
	events, _ := loadLines(t,
		`{"type":"binder","event":"binder_transaction","comm":"A","pid":10,"data":{"debug_id":1,"to_pid":20,"reply":1}}`,
	)
	ipc := correlateIPC(events)
	assert.Equal(t, 0, ipc.Transactions)
	assert.Empty(t, ipc.Edges)
}

func TestIPCDuplicateJoinsLastWins(t *testing.T) {
	events, _ := loadLines(t,
		`{"type":"binder","event":"binder_transaction_alloc_buf","data":{"debug_id":5,"data_size":10}}`,
		`{"type":"binder","event":"binder_transaction_alloc_buf","data":{"debug_id":5,"data_size":99}}`,
		`{"type":"binder","event":"binder_transaction_received","comm":"old","pid":20,"data":{"debug_id":5}}`,
		`{"type":"binder","event":"binder_transaction_received","comm":"new","pid":21,"data":{"debug_id":5}}`,
		`{"type":"binder","event":"binder_transaction","comm":"A","pid":10,"data":{"debug_id":5,"to_pid":20,"oneway":1}}`,
	)
	ipc := correlateIPC(events)
	assert.Equal(t, 1, ipc.Oneway)
	assert.Equal(t, int64(99), ipc.TotalBytes)
	require.Len(t, ipc.Edges, 1)
	assert.Equal(t, "new", ipc.Edges[0].To)
}

func TestIPCEdgesSortedByCount(t *testing.T) {
	events, _ := loadLines(t,
		`{"type":"binder","event":"binder_transaction","comm":"A","pid":1,"data":{"debug_id":1,"to_pid":9}}`,
		`{"type":"binder","event":"binder_transaction","comm":"B","pid":2,"data":{"debug_id":2,"to_pid":9}}`,
		`{"type":"binder","event":"binder_transaction","comm":"B","pid":2,"data":{"debug_id":3,"to_pid":9}}`,
	)
	ipc := correlateIPC(events)
	require.Len(t, ipc.Edges, 2)
	assert.Equal(t, "B", ipc.Edges[0].From)
	assert.Equal(t, 2, ipc.Edges[0].Count)
}
