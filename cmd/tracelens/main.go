package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/seregni/tracelens/internal/cli"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	prog := filepath.Base(os.Args[0])
	if len(os.Args) < 2 {
		printRootHelp(os.Stderr, prog)
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "run":
		args = normalizeSubcommandHelpArgs(args)
		err = cli.RunCommand(ctx, args)
	case "analyze":
		args = normalizeSubcommandHelpArgs(args)
		err = cli.AnalyzeCommand(ctx, args)
	case "report":
		args = normalizeSubcommandHelpArgs(args)
		err = cli.ReportCommand(ctx, args)
	case "query":
		args = normalizeSubcommandHelpArgs(args)
		err = cli.QueryCommand(ctx, args)
	case "sessions":
		args = normalizeSubcommandHelpArgs(args)
		err = cli.SessionsCommand(ctx, args)
	case "help", "-h", "--help":
		return runHelp(ctx, prog, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printRootHelp(os.Stderr, prog)
		return 2
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func normalizeSubcommandHelpArgs(args []string) []string {
	// Support: `tracelens <subcommand> help`
	if len(args) > 0 && args[0] == "help" {
		return []string{"-h"}
	}
	return args
}

func runHelp(ctx context.Context, prog string, args []string) int {
	// `tracelens -h`, `tracelens help`
	if len(args) == 0 {
		printRootHelp(os.Stdout, prog)
		return 0
	}

	// `tracelens help <subcommand>`
	sub := args[0]
	switch sub {
	case "run":
		_ = cli.RunCommand(ctx, []string{"-h"})
		return 0
	case "analyze":
		_ = cli.AnalyzeCommand(ctx, []string{"-h"})
		return 0
	case "report":
		_ = cli.ReportCommand(ctx, []string{"-h"})
		return 0
	case "query":
		_ = cli.QueryCommand(ctx, []string{"-h"})
		return 0
	case "sessions":
		_ = cli.SessionsCommand(ctx, []string{"-h"})
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", sub)
		printRootHelp(os.Stderr, prog)
		return 2
	}
}

func printRootHelp(w io.Writer, prog string) {
	fmt.Fprintf(w, "%s: offline analyzer for kernel trace event logs\n\n", prog)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s <command> [args]\n", prog)
	fmt.Fprintf(w, "  %s help [command]\n\n", prog)

	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run        Capture a tracing session (auto-saves a new session).")
	fmt.Fprintln(w, "  analyze    Analyze a session (default: last) and build its index.")
	fmt.Fprintln(w, "  report     Render the session report (default: last).")
	fmt.Fprintln(w, "  query      Query indexed events of a session (default: last).")
	fmt.Fprintln(w, "  sessions   List saved sessions.")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintf(w, "  %s run --probe probes/syscalls.bt\n", prog)
	fmt.Fprintf(w, "  %s run -- bpftrace -f json probes/binder.bt\n", prog)
	fmt.Fprintf(w, "  %s analyze last\n", prog)
	fmt.Fprintf(w, "  %s analyze --log trace.jsonl --json\n", prog)
	fmt.Fprintf(w, "  %s report last --fenced\n", prog)
	fmt.Fprintf(w, "  %s query last --type syscall --where 'data.ret < 0'\n", prog)
	fmt.Fprintf(w, "  %s sessions\n\n", prog)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  TRACELENS_HOME             Base directory (default: ~/.tracelens)")
	fmt.Fprintln(w, "  TRACELENS_TRACER           Tracer spawned by run (default: bpftrace)")
	fmt.Fprintln(w, "  TRACELENS_RATE_WINDOW_NS   Rate bucket width in ns (default: 1000000000)")
	fmt.Fprintln(w, "  TRACELENS_TOP_PROCESSES    Process ranking size (default: 10)")
	fmt.Fprintln(w, "  TRACELENS_TOP_SLOWEST      Slowest-syscall listing size (default: 20)")
	fmt.Fprintln(w, "  TRACELENS_TIMELINE_CAP     Timeline entries per process (default: 25)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Help:")
	fmt.Fprintf(w, "  %s -h\n", prog)
	fmt.Fprintf(w, "  %s <command> -h\n", prog)
	fmt.Fprintf(w, "  %s <command> help\n", prog)
}
