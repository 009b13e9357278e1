package analyze

import (
	"sort"
	"time"

	"github.com/seregni/tracelens/internal/event"
)

// analyzeRate buckets timestamped events into fixed windows and reports peak
// and average throughput. With fewer than two ts_ns-carrying events the
// statistic is marked unavailable with a reason; that is never an error.
func analyzeRate(events []event.Event, windowNS int64) TimeStats {
	var ts []int64
	for _, ev := range events {
		if ev.HasTSNS {
			ts = append(ts, ev.TSNS)
		}
	}
	if len(ts) < 2 {
		return TimeStats{
			Available: false,
			Reason:    "fewer than two events carry ts_ns",
		}
	}

	minTS := ts[0]
	for _, t := range ts[1:] {
		if t < minTS {
			minTS = t
		}
	}

	buckets := map[int64]int{}
	for _, t := range ts {
		buckets[(t-minTS)/windowNS]++
	}

	// First bucket wins rate ties, so walk indexes in order.
	idxs := make([]int64, 0, len(buckets))
	for idx := range buckets {
		idxs = append(idxs, idx)
	}
	sort.Slice(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })

	peakIdx, peakCount := idxs[0], buckets[idxs[0]]
	total := 0
	for _, idx := range idxs {
		c := buckets[idx]
		total += c
		if c > peakCount {
			peakIdx, peakCount = idx, c
		}
	}

	windowSec := float64(windowNS) / float64(time.Second)
	peakStart := minTS + peakIdx*windowNS
	return TimeStats{
		Available: true,
		WindowNS:  windowNS,
		Buckets:   len(buckets),
		Peak: &RatePeak{
			Count:      peakCount,
			StartNS:    peakStart,
			EndNS:      peakStart + windowNS,
			RatePerSec: float64(peakCount) / windowSec,
		},
		AvgRatePerSec: float64(total) / float64(len(buckets)) / windowSec,
	}
}

// sessionRate derives the whole-session event rate from capture metadata.
// Returns nil unless both bounds are set and stop is after start.
func sessionRate(total int, start, stop time.Time) *SessionRate {
	if start.IsZero() || stop.IsZero() || !stop.After(start) {
		return nil
	}
	dur := stop.Sub(start).Seconds()
	return &SessionRate{
		Start:        start.UTC().Format(time.RFC3339Nano),
		Stop:         stop.UTC().Format(time.RFC3339Nano),
		DurationS:    dur,
		EventsPerSec: float64(total) / dur,
	}
}
