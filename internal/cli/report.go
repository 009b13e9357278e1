package cli

import (
	"context"
	"flag"
	"os"

	"github.com/seregni/tracelens/internal/analyze"
	"github.com/seregni/tracelens/internal/config"
	"github.com/seregni/tracelens/internal/report"
	"github.com/seregni/tracelens/internal/storage"
)

// ReportCommand renders the session report. It prefers the persisted
// index.json and only recomputes (without persisting) when the session was
// never analyzed.
func ReportCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		fenced bool
		asJSON bool
	)
	fs.BoolVar(&fenced, "fenced", false, "wrap the report in a markdown code fence")
	fs.BoolVar(&asJSON, "json", false, "print the summary as JSON instead of the report")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := resolveSession(cfg, fs.Arg(0))
	if err != nil {
		return err
	}

	s, err := loadOrCompute(sess, cfg)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(s)
	}
	report.Render(os.Stdout, s, sess.Meta, report.Options{
		Fenced:      fenced,
		TimelineCap: cfg.TimelineCap,
	})
	return nil
}

// loadOrCompute reads the persisted summary, recomputing it in memory when
// the session was never analyzed.
func loadOrCompute(sess session, cfg *config.Config) (*analyze.Summary, error) {
	if s, err := storage.ReadSummary(sess.Dir); err == nil {
		return s, nil
	}
	events, dropped, err := sess.loadEvents()
	if err != nil {
		return nil, err
	}
	opts := cfg.AnalyzeOptions()
	if start, stop, ok := sess.Meta.Window(); ok {
		opts.SessionStart, opts.SessionStop = start, stop
	}
	return analyze.Run(events, dropped, opts), nil
}
