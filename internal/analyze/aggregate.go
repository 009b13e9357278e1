package analyze

import (
	"sort"

	"github.com/seregni/tracelens/internal/event"
)

// aggregateResult is the private accumulator of the single-pass aggregation.
// It is owned by one goroutine and folded into the Summary exactly once.
type aggregateResult struct {
	total     int
	byType    map[string]int
	byName    map[string]int
	processes map[string]*ProcessProfile
	firstSeen map[string]int
	timelines map[int][]TimelineEntry
	pidComm   map[int]string

	syscallCounts map[string]int
	syscallErrors map[string]int
	latGlobal     []float64
	latByName     map[string][]float64
}

func aggregate(events []event.Event) *aggregateResult {
	r := &aggregateResult{
		byType:        map[string]int{},
		byName:        map[string]int{},
		processes:     map[string]*ProcessProfile{},
		firstSeen:     map[string]int{},
		timelines:     map[int][]TimelineEntry{},
		pidComm:       map[int]string{},
		syscallCounts: map[string]int{},
		syscallErrors: map[string]int{},
		latByName:     map[string][]float64{},
	}

	for _, ev := range events {
		r.total++
		if ev.Type != "" {
			r.byType[ev.Type]++
		}
		if ev.Name != "" {
			r.byName[ev.Name]++
		}

		if ev.Comm != "" {
			p, ok := r.processes[ev.Comm]
			if !ok {
				p = &ProcessProfile{ByType: map[string]int{}, ByEvent: map[string]int{}}
				r.processes[ev.Comm] = p
				r.firstSeen[ev.Comm] = len(r.firstSeen)
			}
			p.Total++
			if ev.Type != "" {
				p.ByType[ev.Type]++
			}
			if ev.Name != "" {
				p.ByEvent[ev.Name]++
			}
		}

		if ev.HasPID {
			if ev.Name != "" {
				r.timelines[ev.PID] = append(r.timelines[ev.PID], TimelineEntry{
					TS:    ev.TS,
					Type:  ev.Type,
					Event: ev.Name,
				})
			}
			if ev.Comm != "" {
				r.pidComm[ev.PID] = ev.Comm
			}
		}

		if ev.Type == "syscall" {
			r.syscallCounts[ev.Name]++
			if ret, ok := ev.Data.Int("ret"); ok && ret < 0 {
				r.syscallErrors[ev.Name]++
			}
			if lat, ok := ev.Data.Float("lat_us"); ok {
				r.latGlobal = append(r.latGlobal, lat)
				r.latByName[ev.Name] = append(r.latByName[ev.Name], lat)
			}
		}
	}
	return r
}

// topProcesses ranks comms by total event count, ties broken by first-seen
// order.
func (r *aggregateResult) topProcesses(n int) []ProcessCount {
	out := make([]ProcessCount, 0, len(r.processes))
	for comm, p := range r.processes {
		out = append(out, ProcessCount{Comm: comm, Count: p.Total})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return r.firstSeen[out[i].Comm] < r.firstSeen[out[j].Comm]
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// syscallStats assembles the per-name counters. Error rates are derived
// here, at build time; a name with zero calls never divides.
func (r *aggregateResult) syscallStats() SyscallStats {
	rates := make(map[string]float64, len(r.syscallCounts))
	for name, count := range r.syscallCounts {
		if count == 0 {
			rates[name] = 0
			continue
		}
		rates[name] = float64(r.syscallErrors[name]) / float64(count)
	}
	byName := make(map[string]LatencyDist, len(r.latByName))
	for name, lats := range r.latByName {
		byName[name] = distOf(lats)
	}
	return SyscallStats{
		Counts:        r.syscallCounts,
		Errors:        r.syscallErrors,
		ErrorRates:    rates,
		LatencyByName: byName,
	}
}
