package analyze

import "time"

// Defaults for the report-shaping knobs.
const (
	DefaultWindowNS        = int64(time.Second)
	DefaultTopProcesses    = 10
	DefaultTopSlowest      = 20
	DefaultTopByP95        = 15
	DefaultTopErrnoGlobal  = 10
	DefaultTopErrnoPerName = 5
	DefaultTopCodes        = 10
	DefaultTopEdgeCodes    = 5
)

// Options configures a pipeline run. The zero value means "all defaults".
type Options struct {
	// WindowNS is the bucket width for rate analysis.
	WindowNS int64
	// TopProcesses caps the process activity ranking.
	TopProcesses int
	// TopSlowest caps the slowest-syscall listing.
	TopSlowest int
	// TopByP95 caps the per-process latency ranking.
	TopByP95 int
	// TopErrnoGlobal / TopErrnoPerName cap the errno breakdowns.
	TopErrnoGlobal  int
	TopErrnoPerName int

	// SessionStart/SessionStop, when both set and stop>start, attach an
	// overall events-per-second figure to the time statistics.
	SessionStart time.Time
	SessionStop  time.Time
}

func (o Options) withDefaults() Options {
	if o.WindowNS <= 0 {
		o.WindowNS = DefaultWindowNS
	}
	if o.TopProcesses <= 0 {
		o.TopProcesses = DefaultTopProcesses
	}
	if o.TopSlowest <= 0 {
		o.TopSlowest = DefaultTopSlowest
	}
	if o.TopByP95 <= 0 {
		o.TopByP95 = DefaultTopByP95
	}
	if o.TopErrnoGlobal <= 0 {
		o.TopErrnoGlobal = DefaultTopErrnoGlobal
	}
	if o.TopErrnoPerName <= 0 {
		o.TopErrnoPerName = DefaultTopErrnoPerName
	}
	return o
}

type ProcessCount struct {
	Comm  string `json:"comm"`
	Count int    `json:"count"`
}

type ProcessProfile struct {
	Total   int            `json:"total"`
	ByType  map[string]int `json:"by_type"`
	ByEvent map[string]int `json:"by_event"`
}

type TimelineEntry struct {
	TS    string `json:"ts"`
	Type  string `json:"type"`
	Event string `json:"event"`
}

// LatencyDist is a nearest-rank percentile summary of a latency sample,
// in microseconds.
type LatencyDist struct {
	N     int     `json:"n"`
	MinUS float64 `json:"min_us"`
	P50US float64 `json:"p50_us"`
	P95US float64 `json:"p95_us"`
	P99US float64 `json:"p99_us"`
	MaxUS float64 `json:"max_us"`
}

type SyscallStats struct {
	Counts        map[string]int         `json:"counts"`
	Errors        map[string]int         `json:"errors"`
	ErrorRates    map[string]float64     `json:"error_rates"`
	LatencyByName map[string]LatencyDist `json:"latency_by_name"`
}

type RatePeak struct {
	Count      int     `json:"count"`
	StartNS    int64   `json:"start_ns"`
	EndNS      int64   `json:"end_ns"`
	RatePerSec float64 `json:"rate_per_sec"`
}

type SessionRate struct {
	Start        string  `json:"start"`
	Stop         string  `json:"stop"`
	DurationS    float64 `json:"duration_s"`
	EventsPerSec float64 `json:"events_per_sec"`
}

// TimeStats reports bucketed throughput. Available is false when fewer than
// two events carry ts_ns; Reason then says why.
type TimeStats struct {
	Available     bool         `json:"available"`
	Reason        string       `json:"reason,omitempty"`
	WindowNS      int64        `json:"window_ns,omitempty"`
	Buckets       int          `json:"buckets,omitempty"`
	Peak          *RatePeak    `json:"peak,omitempty"`
	AvgRatePerSec float64      `json:"avg_rate_per_sec,omitempty"`
	Session       *SessionRate `json:"session,omitempty"`
}

type SlowEvent struct {
	TS    string  `json:"ts,omitempty"`
	Comm  string  `json:"comm,omitempty"`
	PID   int     `json:"pid"`
	TID   int     `json:"tid,omitempty"`
	Name  string  `json:"name"`
	Ret   int64   `json:"ret"`
	LatUS float64 `json:"lat_us"`
}

type ProcessLatency struct {
	Comm  string  `json:"comm"`
	N     int     `json:"n"`
	P50US float64 `json:"p50_us"`
	P95US float64 `json:"p95_us"`
	P99US float64 `json:"p99_us"`
	MaxUS float64 `json:"max_us"`
}

type ErrnoCount struct {
	Errno int64 `json:"errno"`
	Count int   `json:"count"`
}

type DeepDive struct {
	Slowest        []SlowEvent             `json:"slowest"`
	ProcessRanking []ProcessLatency        `json:"process_ranking"`
	ErrnoGlobal    []ErrnoCount            `json:"errno_global"`
	ErrnoBySyscall map[string][]ErrnoCount `json:"errno_by_syscall"`
}

type CodeCount struct {
	Code  int64 `json:"code"`
	Count int   `json:"count"`
}

type IPCEdge struct {
	From       string      `json:"from"`
	To         string      `json:"to"`
	Count      int         `json:"count"`
	TotalBytes int64       `json:"total_bytes"`
	Codes      []CodeCount `json:"codes,omitempty"`
}

type IPCStats struct {
	Transactions int         `json:"transactions"`
	Oneway       int         `json:"oneway"`
	Sync         int         `json:"sync"`
	TotalBytes   int64       `json:"total_bytes"`
	TopCodes     []CodeCount `json:"top_codes,omitempty"`
	Edges        []IPCEdge   `json:"edges"`
}

type TreeNode struct {
	PID      int         `json:"pid"`
	Comm     string      `json:"comm,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

type FlatProcess struct {
	PID  int    `json:"pid"`
	Comm string `json:"comm,omitempty"`
	PPID int    `json:"ppid"`
}

type ProcessTree struct {
	Roots []*TreeNode   `json:"roots"`
	Flat  []FlatProcess `json:"flat"`
}

// Summary is the terminal aggregate of one traced session. It is built once
// by Run and read-only afterwards; the report renderer and the JSON
// persistence both consume it as-is.
type Summary struct {
	TotalEvents  int                        `json:"total_events"`
	DroppedLines int                        `json:"dropped_lines"`
	EventsByType map[string]int             `json:"events_by_type"`
	EventsByName map[string]int             `json:"events_by_name"`
	TopProcesses []ProcessCount             `json:"top_processes"`
	Processes    map[string]*ProcessProfile `json:"processes"`

	Syscalls       SyscallStats `json:"syscalls"`
	LatencyOverall LatencyDist  `json:"latency_overall"`

	Timelines map[int][]TimelineEntry `json:"timelines,omitempty"`
	PIDComm   map[int]string          `json:"pid_comm,omitempty"`

	Time            TimeStats                      `json:"time"`
	LatencyDeepDive DeepDive                       `json:"latency_deep_dive"`
	IPC             IPCStats                       `json:"ipc"`
	ProcessTree     ProcessTree                    `json:"process_tree"`
	Resources       map[string]map[string][]string `json:"resources"`
}
