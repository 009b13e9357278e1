package analyze

import (
	"sort"

	"github.com/seregni/tracelens/internal/event"
)

// percentile is the nearest-rank percentile over an ascending-sorted sample:
// index floor(p * (n-1)). percentile(s, 0) == s[0], percentile(s, 1) == s[n-1].
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(p * float64(n-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// distOf summarizes a latency sample. The input is not mutated.
func distOf(lats []float64) LatencyDist {
	if len(lats) == 0 {
		return LatencyDist{}
	}
	sorted := make([]float64, len(lats))
	copy(sorted, lats)
	sort.Float64s(sorted)
	return LatencyDist{
		N:     len(sorted),
		MinUS: sorted[0],
		P50US: percentile(sorted, 0.50),
		P95US: percentile(sorted, 0.95),
		P99US: percentile(sorted, 0.99),
		MaxUS: sorted[len(sorted)-1],
	}
}

// deepDive ranks the slowest syscall observations, profiles tail latency per
// process and breaks failures down by errno.
func deepDive(events []event.Event, opts Options) DeepDive {
	type obs struct {
		ev     event.Event
		ret    int64
		hasRet bool
		lat    float64
		hasLat bool
	}

	observations := make([]obs, 0, len(events))
	for _, ev := range events {
		if ev.Type != "syscall" {
			continue
		}
		o := obs{ev: ev}
		o.ret, o.hasRet = ev.Data.Int("ret")
		o.lat, o.hasLat = ev.Data.Float("lat_us")
		observations = append(observations, o)
	}

	// Slowest operations: latency descending, first occurrence wins ties.
	timed := make([]obs, 0, len(observations))
	for _, o := range observations {
		if o.hasLat {
			timed = append(timed, o)
		}
	}
	sort.SliceStable(timed, func(i, j int) bool { return timed[i].lat > timed[j].lat })
	if len(timed) > opts.TopSlowest {
		timed = timed[:opts.TopSlowest]
	}
	slowest := make([]SlowEvent, 0, len(timed))
	for _, o := range timed {
		slowest = append(slowest, SlowEvent{
			TS:    o.ev.TS,
			Comm:  o.ev.Comm,
			PID:   o.ev.PID,
			TID:   o.ev.TID,
			Name:  o.ev.Name,
			Ret:   o.ret,
			LatUS: o.lat,
		})
	}

	// Per-process latency percentiles, ranked by p95 descending. Processes
	// with syscalls but no latency samples rank last.
	perComm := map[string][]float64{}
	commSeen := map[string]bool{}
	for _, o := range observations {
		comm := o.ev.Comm
		if comm == "" {
			continue
		}
		commSeen[comm] = true
		if o.hasLat {
			perComm[comm] = append(perComm[comm], o.lat)
		}
	}
	ranking := make([]ProcessLatency, 0, len(commSeen))
	for comm := range commSeen {
		d := distOf(perComm[comm])
		ranking = append(ranking, ProcessLatency{
			Comm:  comm,
			N:     d.N,
			P50US: d.P50US,
			P95US: d.P95US,
			P99US: d.P99US,
			MaxUS: d.MaxUS,
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		a, b := ranking[i], ranking[j]
		if (a.N == 0) != (b.N == 0) {
			return b.N == 0
		}
		if a.P95US != b.P95US {
			return a.P95US > b.P95US
		}
		return a.Comm < b.Comm
	})
	if len(ranking) > opts.TopByP95 {
		ranking = ranking[:opts.TopByP95]
	}

	// Errno breakdown: errno = |ret| for negative integer returns.
	global := map[int64]int{}
	byName := map[string]map[int64]int{}
	for _, o := range observations {
		if !o.hasRet || o.ret >= 0 {
			continue
		}
		errno := -o.ret
		global[errno]++
		m := byName[o.ev.Name]
		if m == nil {
			m = map[int64]int{}
			byName[o.ev.Name] = m
		}
		m[errno]++
	}
	errnoBySyscall := make(map[string][]ErrnoCount, len(byName))
	for name, m := range byName {
		errnoBySyscall[name] = topErrnos(m, opts.TopErrnoPerName)
	}

	return DeepDive{
		Slowest:        slowest,
		ProcessRanking: ranking,
		ErrnoGlobal:    topErrnos(global, opts.TopErrnoGlobal),
		ErrnoBySyscall: errnoBySyscall,
	}
}

func topErrnos(m map[int64]int, n int) []ErrnoCount {
	out := make([]ErrnoCount, 0, len(m))
	for errno, count := range m {
		out = append(out, ErrnoCount{Errno: errno, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Errno < out[j].Errno
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
