package event

import "sort"

// Order establishes the total order used by the timeline-sensitive passes.
// When at least one event carries ts_ns, events are sorted by ts_ns
// ascending with untimestamped events after all timestamped ones; the sort
// is stable, so ties and the untimestamped tail keep arrival order. When no
// event carries ts_ns the input order stands.
//
// The input slice is never mutated; callers treat the loaded log as an
// immutable snapshot.
func Order(events []Event) []Event {
	timestamped := false
	for i := range events {
		if events[i].HasTSNS {
			timestamped = true
			break
		}
	}
	if !timestamped {
		return events
	}

	out := make([]Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.HasTSNS && b.HasTSNS:
			return a.TSNS < b.TSNS
		case a.HasTSNS:
			return true
		default:
			return false
		}
	})
	return out
}
