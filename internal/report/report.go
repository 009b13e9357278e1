// Package report renders a Summary as the fixed-section human-readable
// session report. It is a pure function of the Summary plus capture
// metadata; it never recomputes statistics.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/seregni/tracelens/internal/analyze"
	"github.com/seregni/tracelens/internal/cliui"
	"github.com/seregni/tracelens/internal/sessions"
)

func durationNS(ns int64) time.Duration { return time.Duration(ns) }

func durationSec(s float64) time.Duration { return time.Duration(s * float64(time.Second)) }

const timelineProcesses = 5

// Options shapes the rendering, not the statistics.
type Options struct {
	// Fenced wraps the whole report in one ``` block.
	Fenced bool
	// TimelineCap limits timeline entries per process (default 25).
	TimelineCap int
}

func (o Options) withDefaults() Options {
	if o.TimelineCap <= 0 {
		o.TimelineCap = 25
	}
	return o
}

// Render writes the full report.
func Render(w io.Writer, s *analyze.Summary, meta sessions.Meta, opts Options) {
	opts = opts.withDefaults()
	if opts.Fenced {
		fmt.Fprintln(w, "```text")
		defer fmt.Fprintln(w, "```")
	}

	renderHeader(w, s, meta)
	renderTime(w, s)
	renderEventsByType(w, s)
	renderTopProcesses(w, s)
	renderSyscalls(w, s)
	renderLatencyOverall(w, s)
	renderDeepDive(w, s)
	renderTimelines(w, s, opts.TimelineCap)
	renderIPC(w, s)
	renderTree(w, s)
	renderResources(w, s)
}

func renderHeader(w io.Writer, s *analyze.Summary, meta sessions.Meta) {
	fmt.Fprintln(w, "========== SESSION SUMMARY ==========")
	if meta.SessionID != "" {
		fmt.Fprintf(w, "Session: %s\n", meta.SessionID)
	}
	if meta.Probe != "" {
		fmt.Fprintf(w, "Probe:   %s\n", meta.Probe)
	}
	if meta.Start != "" {
		fmt.Fprintf(w, "Start:   %s\n", meta.Start)
	}
	if meta.Stop != "" {
		fmt.Fprintf(w, "Stop:    %s\n", meta.Stop)
	}
	fmt.Fprintf(w, "Total events: %d", s.TotalEvents)
	if s.DroppedLines > 0 {
		fmt.Fprintf(w, " (%d unparsable lines dropped)", s.DroppedLines)
	}
	fmt.Fprintln(w)
}

func renderTime(w io.Writer, s *analyze.Summary) {
	fmt.Fprintln(w, "\nTime / rate:")
	t := s.Time
	if !t.Available {
		fmt.Fprintf(w, "  rate analysis unavailable: %s\n", t.Reason)
	} else {
		fmt.Fprintf(w, "  window=%s buckets=%d\n", cliui.Seconds(durationNS(t.WindowNS)), t.Buckets)
		if t.Peak != nil {
			fmt.Fprintf(w, "  peak:    %d events in [%s, %s) → %s\n",
				t.Peak.Count, cliui.FormatNS(t.Peak.StartNS), cliui.FormatNS(t.Peak.EndNS), cliui.Rate(t.Peak.RatePerSec))
		}
		fmt.Fprintf(w, "  average: %s over non-empty buckets\n", cliui.Rate(t.AvgRatePerSec))
	}
	if t.Session != nil {
		fmt.Fprintf(w, "  session: %s → %s (%s, %s)\n",
			t.Session.Start, t.Session.Stop, cliui.Seconds(durationSec(t.Session.DurationS)), cliui.Rate(t.Session.EventsPerSec))
	}
}

func renderEventsByType(w io.Writer, s *analyze.Summary) {
	fmt.Fprintln(w, "\nEvents by type:")
	for _, k := range sortedKeys(s.EventsByType) {
		fmt.Fprintf(w, "  %-12s %d\n", k, s.EventsByType[k])
	}
}

func renderTopProcesses(w io.Writer, s *analyze.Summary) {
	fmt.Fprintln(w, "\nTop processes:")
	rows := make([][]string, 0, len(s.TopProcesses))
	for _, p := range s.TopProcesses {
		rows = append(rows, []string{p.Comm, strconv.Itoa(p.Count)})
	}
	cliui.RenderTable(w, []cliui.Column{{Name: "comm", MaxWidth: 32}, {Name: "events", AlignRight: true}}, rows)
}

func renderSyscalls(w io.Writer, s *analyze.Summary) {
	if len(s.Syscalls.Counts) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSyscalls:")
	rows := make([][]string, 0, len(s.Syscalls.Counts))
	for _, name := range sortedKeys(s.Syscalls.Counts) {
		rows = append(rows, []string{
			name,
			strconv.Itoa(s.Syscalls.Counts[name]),
			strconv.Itoa(s.Syscalls.Errors[name]),
			cliui.Percent(s.Syscalls.ErrorRates[name]),
		})
	}
	cliui.RenderTable(w, []cliui.Column{
		{Name: "syscall", MaxWidth: 24},
		{Name: "count", AlignRight: true},
		{Name: "errors", AlignRight: true},
		{Name: "err%", AlignRight: true},
	}, rows)
}

func renderLatencyOverall(w io.Writer, s *analyze.Summary) {
	d := s.LatencyOverall
	if d.N == 0 {
		return
	}
	fmt.Fprintln(w, "\nLatency overall (us):")
	fmt.Fprintf(w, "  n=%d min=%s p50=%s p95=%s p99=%s max=%s\n",
		d.N, cliui.Micros(d.MinUS), cliui.Micros(d.P50US), cliui.Micros(d.P95US), cliui.Micros(d.P99US), cliui.Micros(d.MaxUS))
}

func renderDeepDive(w io.Writer, s *analyze.Summary) {
	d := s.LatencyDeepDive
	if len(d.Slowest) > 0 {
		fmt.Fprintln(w, "\nSlowest syscalls:")
		rows := make([][]string, 0, len(d.Slowest))
		for _, e := range d.Slowest {
			rows = append(rows, []string{
				e.TS, e.Comm, strconv.Itoa(e.PID), e.Name,
				strconv.FormatInt(e.Ret, 10), cliui.Micros(e.LatUS),
			})
		}
		cliui.RenderTable(w, []cliui.Column{
			{Name: "ts"}, {Name: "comm", MaxWidth: 20}, {Name: "pid", AlignRight: true},
			{Name: "syscall"}, {Name: "ret", AlignRight: true}, {Name: "lat", AlignRight: true},
		}, rows)
	}
	if len(d.ProcessRanking) > 0 {
		fmt.Fprintln(w, "\nProcesses by p95 latency:")
		rows := make([][]string, 0, len(d.ProcessRanking))
		for _, p := range d.ProcessRanking {
			rows = append(rows, []string{
				p.Comm, strconv.Itoa(p.N),
				cliui.Micros(p.P50US), cliui.Micros(p.P95US), cliui.Micros(p.P99US), cliui.Micros(p.MaxUS),
			})
		}
		cliui.RenderTable(w, []cliui.Column{
			{Name: "comm", MaxWidth: 20}, {Name: "n", AlignRight: true},
			{Name: "p50", AlignRight: true}, {Name: "p95", AlignRight: true},
			{Name: "p99", AlignRight: true}, {Name: "max", AlignRight: true},
		}, rows)
	}
	if len(d.ErrnoGlobal) > 0 {
		fmt.Fprintln(w, "\nFailures by errno:")
		for _, e := range d.ErrnoGlobal {
			fmt.Fprintf(w, "  errno %-4d %d\n", e.Errno, e.Count)
		}
		for _, name := range sortedKeys(d.ErrnoBySyscall) {
			parts := ""
			for _, e := range d.ErrnoBySyscall[name] {
				parts += fmt.Sprintf(" %d×%d", e.Errno, e.Count)
			}
			fmt.Fprintf(w, "  %s:%s\n", name, parts)
		}
	}
}

func renderTimelines(w io.Writer, s *analyze.Summary, limit int) {
	top := s.TopProcesses
	if len(top) > timelineProcesses {
		top = top[:timelineProcesses]
	}
	printed := false
	for _, p := range top {
		entries := timelineFor(s, p.Comm)
		if len(entries) == 0 {
			continue
		}
		if !printed {
			fmt.Fprintln(w, "\nTimelines:")
			printed = true
		}
		truncated := len(entries) > limit
		if truncated {
			entries = entries[:limit]
		}
		fmt.Fprintf(w, "  %s:\n", p.Comm)
		for _, e := range entries {
			fmt.Fprintf(w, "    %-16s %s %s\n", e.TS, e.Type, e.Event)
		}
		if truncated {
			fmt.Fprintln(w, "    ...")
		}
	}
}

// timelineFor merges the per-pid timelines of every pid last seen under
// comm, in pid order. Entries within a pid keep stream order.
func timelineFor(s *analyze.Summary, comm string) []analyze.TimelineEntry {
	var pids []int
	for pid, c := range s.PIDComm {
		if c == comm {
			pids = append(pids, pid)
		}
	}
	sort.Ints(pids)
	var out []analyze.TimelineEntry
	for _, pid := range pids {
		out = append(out, s.Timelines[pid]...)
	}
	return out
}

func renderIPC(w io.Writer, s *analyze.Summary) {
	ipc := s.IPC
	if ipc.Transactions == 0 {
		return
	}
	fmt.Fprintln(w, "\nIPC (binder):")
	fmt.Fprintf(w, "  transactions=%d sync=%d oneway=%d bytes=%s\n",
		ipc.Transactions, ipc.Sync, ipc.Oneway, cliui.Bytes(ipc.TotalBytes))
	for _, e := range ipc.Edges {
		fmt.Fprintf(w, "  %s → %s: calls=%d bytes=%s\n", e.From, e.To, e.Count, cliui.Bytes(e.TotalBytes))
	}
}

func renderTree(w io.Writer, s *analyze.Summary) {
	if len(s.ProcessTree.Flat) == 0 {
		return
	}
	fmt.Fprintln(w, "\nProcess tree:")
	for _, root := range s.ProcessTree.Roots {
		renderNode(w, root, 1)
	}
}

func renderNode(w io.Writer, n *analyze.TreeNode, depth int) {
	name := n.Comm
	if name == "" {
		name = "?"
	}
	for i := 0; i < depth; i++ {
		fmt.Fprint(w, "  ")
	}
	fmt.Fprintf(w, "%s (%d)\n", name, n.PID)
	for _, c := range n.Children {
		renderNode(w, c, depth+1)
	}
}

func renderResources(w io.Writer, s *analyze.Summary) {
	if len(s.Resources) == 0 {
		return
	}
	fmt.Fprintln(w, "\nResources:")
	for _, comm := range sortedKeys(s.Resources) {
		fmt.Fprintf(w, "  %s:\n", comm)
		byKind := s.Resources[comm]
		for _, kind := range sortedKeys(byKind) {
			for _, res := range byKind[kind] {
				fmt.Fprintf(w, "    %-16s %s\n", kind, res)
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
