// Package analyze turns an ordered trace-event sequence into a Summary.
//
// The pipeline is a one-shot batch: the loaded log is an immutable snapshot,
// and the six passes (aggregation, rate, latency deep-dive, IPC correlation,
// process tree, resource map) each read the same slice and mutate only their
// own private accumulators, so they run concurrently. A single merging step
// folds every sub-result into the Summary after all passes finish; no two
// passes write the same Summary field.
package analyze

import (
	"sync"

	"github.com/seregni/tracelens/internal/event"
)

// Run executes the full pipeline. events is the loaded log in arrival
// order; dropped is the count of unparsable lines the loader skipped.
func Run(events []event.Event, dropped int, opts Options) *Summary {
	opts = opts.withDefaults()
	ordered := event.Order(events)

	var (
		agg  *aggregateResult
		rate TimeStats
		deep DeepDive
		ipc  IPCStats
		tree ProcessTree
		res  map[string]map[string][]string
	)

	var wg sync.WaitGroup
	wg.Add(6)
	go func() { defer wg.Done(); agg = aggregate(ordered) }()
	go func() { defer wg.Done(); rate = analyzeRate(ordered, opts.WindowNS) }()
	go func() { defer wg.Done(); deep = deepDive(ordered, opts) }()
	go func() { defer wg.Done(); ipc = correlateIPC(ordered) }()
	go func() { defer wg.Done(); tree = buildTree(ordered) }()
	go func() { defer wg.Done(); res = mapResources(ordered) }()
	wg.Wait()

	rate.Session = sessionRate(agg.total, opts.SessionStart, opts.SessionStop)

	return &Summary{
		TotalEvents:     agg.total,
		DroppedLines:    dropped,
		EventsByType:    agg.byType,
		EventsByName:    agg.byName,
		TopProcesses:    agg.topProcesses(opts.TopProcesses),
		Processes:       agg.processes,
		Syscalls:        agg.syscallStats(),
		LatencyOverall:  distOf(agg.latGlobal),
		Timelines:       agg.timelines,
		PIDComm:         agg.pidComm,
		Time:            rate,
		LatencyDeepDive: deep,
		IPC:             ipc,
		ProcessTree:     tree,
		Resources:       res,
	}
}
