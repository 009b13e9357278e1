package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/seregni/tracelens/internal/event"
	"github.com/seregni/tracelens/internal/sessions"
	"github.com/seregni/tracelens/internal/storage"
)

// RunCommand captures a tracing session: it spawns the tracer, validates
// its stdout line by line, and writes valid JSON events to events.jsonl
// while diverting everything else to stderr.log. The tracer is an opaque
// producer; tracelens never loads probes itself.
func RunCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		probe      string
		sessionDir string
	)
	fs.StringVar(&probe, "probe", "", "probe file passed to the default tracer")
	fs.StringVar(&sessionDir, "session-dir", "", "capture into this directory instead of a new session under home")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	home, err := cfg.HomeDir()
	if err != nil {
		return err
	}
	if err := sessions.EnsureHome(home); err != nil {
		return err
	}

	// Explicit tracer command after --, or the configured tracer + probe.
	argv := fs.Args()
	if len(argv) == 0 {
		if strings.TrimSpace(probe) == "" {
			return fmt.Errorf("either --probe or a tracer command after -- is required")
		}
		argv = []string{cfg.Tracer, probe}
	}

	var id, dir string
	if sessionDir != "" {
		dir = sessionDir
		id = filepath.Base(sessionDir)
	} else {
		id, err = sessions.NewID(home, time.Now())
		if err != nil {
			return err
		}
		dir = sessions.Dir(home, id)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	meta := sessions.Meta{
		SessionID: id,
		UUID:      uuid.NewString(),
		Start:     time.Now().UTC().Format(time.RFC3339Nano),
		Probe:     probe,
		Command:   strings.Join(argv, " "),
	}
	if err := sessions.WriteMeta(dir, meta); err != nil {
		return err
	}

	events, err := storage.NewLineWriter(filepath.Join(dir, sessions.EventsFile))
	if err != nil {
		return err
	}
	defer events.Close()

	stderrLog, err := os.OpenFile(filepath.Join(dir, sessions.StderrFile), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open stderr log: %w", err)
	}
	defer stderrLog.Close()

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stderr = stderrLog
	// Own process group, so teardown reaches bpftrace's children too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start tracer %q: %w", argv[0], err)
	}

	fmt.Fprintf(os.Stderr, "session %s: tracing with %q (Ctrl-C to stop)\n", id, meta.Command)

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = unix.Kill(-cmd.Process.Pid, unix.SIGTERM)
		case <-done:
		}
	}()

	captured, diverted := 0, 0
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(scanner.Text())) == 0 {
			continue
		}
		if _, ok := event.ParseLine(line); ok {
			if err := events.WriteLine(line); err != nil {
				return fmt.Errorf("write event: %w", err)
			}
			captured++
			continue
		}
		// Not an event: tracer diagnostics end up next to its stderr.
		diverted++
		_, _ = stderrLog.Write(append(append([]byte{}, line...), '\n'))
	}
	scanErr := scanner.Err()

	waitErr := cmd.Wait()
	close(done)

	meta.Stop = time.Now().UTC().Format(time.RFC3339Nano)
	meta.Events = captured
	meta.DroppedLines = diverted
	if err := sessions.WriteMeta(dir, meta); err != nil {
		return err
	}
	if err := events.Close(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "session %s: %d events captured (%d lines diverted)\n", id, captured, diverted)
	fmt.Fprintf(os.Stderr, "saved in %s\n", dir)

	if scanErr != nil {
		return fmt.Errorf("read tracer output: %w", scanErr)
	}
	// A tracer torn down by our own signal is a clean stop.
	if waitErr != nil && ctx.Err() == nil {
		return fmt.Errorf("tracer: %w", waitErr)
	}
	return nil
}
