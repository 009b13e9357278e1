package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/seregni/tracelens/internal/analyze"
	"github.com/seregni/tracelens/internal/cliui"
	"github.com/seregni/tracelens/internal/event"
	"github.com/seregni/tracelens/internal/storage"
)

// AnalyzeCommand runs the analysis pipeline over a session (or a bare log
// file) and persists index.json plus the sqlite event index.
func AnalyzeCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		logPath string
		asJSON  bool
	)
	fs.StringVar(&logPath, "log", "", "analyze a standalone JSONL log instead of a session")
	fs.BoolVar(&asJSON, "json", false, "print the full summary as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := cfg.AnalyzeOptions()

	// Standalone log: analyze and print, nothing is persisted.
	if logPath != "" {
		events, dropped, err := event.ReadLog(logPath)
		if err != nil {
			return err
		}
		s := analyze.Run(events, dropped, opts)
		if asJSON {
			return printJSON(s)
		}
		printRecap(s)
		return nil
	}

	sess, err := resolveSession(cfg, fs.Arg(0))
	if err != nil {
		return err
	}
	events, dropped, err := sess.loadEvents()
	if err != nil {
		return err
	}
	if start, stop, ok := sess.Meta.Window(); ok {
		opts.SessionStart, opts.SessionStop = start, stop
	}

	s := analyze.Run(events, dropped, opts)
	if err := storage.WriteSummary(sess.Dir, s); err != nil {
		return err
	}
	if err := storage.BuildIndex(sess.Dir, sess.Meta, events); err != nil {
		return err
	}

	if asJSON {
		return printJSON(s)
	}
	fmt.Printf("session %s analyzed\n", sess.ID)
	printRecap(s)
	return nil
}

// printRecap is the short stdout digest; `tracelens report` renders the
// full document.
func printRecap(s *analyze.Summary) {
	fmt.Printf("events: %d", s.TotalEvents)
	if s.DroppedLines > 0 {
		fmt.Printf(" (%d unparsable lines dropped)", s.DroppedLines)
	}
	fmt.Println()

	types := make([]string, 0, len(s.EventsByType))
	for t := range s.EventsByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("  %-12s %d\n", t, s.EventsByType[t])
	}
	if len(s.TopProcesses) > 0 {
		top := s.TopProcesses[0]
		fmt.Printf("busiest process: %s (%d events)\n", top.Comm, top.Count)
	}
	if s.LatencyOverall.N > 0 {
		d := s.LatencyOverall
		fmt.Printf("syscall latency: n=%d p50=%s p95=%s max=%s\n",
			d.N, cliui.Micros(d.P50US), cliui.Micros(d.P95US), cliui.Micros(d.MaxUS))
	}
	if s.IPC.Transactions > 0 {
		fmt.Printf("binder: %d transactions over %d edges\n", s.IPC.Transactions, len(s.IPC.Edges))
	}
}
