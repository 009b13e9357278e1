package analyze

import (
	"fmt"
	"sort"

	"github.com/seregni/tracelens/internal/event"
)

// Binder probe event names. One logical transaction shows up as up to three
// events sharing a debug_id: the initiating transaction, the buffer
// allocation and the delivery on the receiving side.
const (
	evBinderTransaction = "binder_transaction"
	evBinderAllocBuf    = "binder_transaction_alloc_buf"
	evBinderReceived    = "binder_transaction_received"
)

type edgeKey struct {
	from, to string
}

type edgeAcc struct {
	count int
	bytes int64
	codes map[int64]int
}

// correlateIPC joins the three binder event kinds by debug_id and folds them
// into sender→receiver edges. Replies are skipped: a reply travels an edge
// that the originating transaction already established.
func correlateIPC(events []event.Event) IPCStats {
	// Last-seen alloc/received win on duplicate debug_id, plain overwrite.
	allocs := map[int64]event.Event{}
	received := map[int64]event.Event{}
	for _, ev := range events {
		id, ok := ev.Data.Int("debug_id")
		if !ok {
			continue
		}
		switch ev.Name {
		case evBinderAllocBuf:
			allocs[id] = ev
		case evBinderReceived:
			received[id] = ev
		}
	}

	stats := IPCStats{Edges: []IPCEdge{}}
	codeCounts := map[int64]int{}
	edges := map[edgeKey]*edgeAcc{}
	edgeOrder := []edgeKey{}

	for _, ev := range events {
		if ev.Name != evBinderTransaction || ev.Data.Flag("reply") {
			continue
		}
		stats.Transactions++
		if ev.Data.Flag("oneway") {
			stats.Oneway++
		} else {
			stats.Sync++
		}

		var size int64
		var recvComm string
		if id, ok := ev.Data.Int("debug_id"); ok {
			if alloc, ok := allocs[id]; ok {
				// Unmatched alloc contributes 0 bytes, not a failure.
				size, _ = alloc.Data.Int("data_size")
			}
			if recv, ok := received[id]; ok {
				recvComm = recv.Comm
			}
		}
		stats.TotalBytes += size

		sender := ev.Comm
		if sender == "" {
			sender = "unknown"
		}
		receiver := recvComm
		if receiver == "" {
			if toPID, ok := ev.Data.Int("to_pid"); ok {
				receiver = fmt.Sprintf("pid:%d", toPID)
			} else {
				receiver = "unknown"
			}
		}

		code, _ := ev.Data.Int("code")
		codeCounts[code]++

		key := edgeKey{from: sender, to: receiver}
		acc, ok := edges[key]
		if !ok {
			acc = &edgeAcc{codes: map[int64]int{}}
			edges[key] = acc
			edgeOrder = append(edgeOrder, key)
		}
		acc.count++
		acc.bytes += size
		acc.codes[code]++
	}

	stats.TopCodes = topCodes(codeCounts, DefaultTopCodes)

	for _, key := range edgeOrder {
		acc := edges[key]
		stats.Edges = append(stats.Edges, IPCEdge{
			From:       key.from,
			To:         key.to,
			Count:      acc.count,
			TotalBytes: acc.bytes,
			Codes:      topCodes(acc.codes, DefaultTopEdgeCodes),
		})
	}
	sort.SliceStable(stats.Edges, func(i, j int) bool {
		a, b := stats.Edges[i], stats.Edges[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})

	return stats
}

func topCodes(m map[int64]int, n int) []CodeCount {
	out := make([]CodeCount, 0, len(m))
	for code, count := range m {
		out = append(out, CodeCount{Code: code, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
