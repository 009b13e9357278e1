package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/seregni/tracelens/internal/cliui"
	"github.com/seregni/tracelens/internal/sessions"
	"github.com/seregni/tracelens/internal/storage"
)

// QueryCommand filters the indexed events of a session. Equality filters
// run in sqlite; --where compiles an expression evaluated per row, with the
// event fields (and the open data payload) as its environment.
func QueryCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		typ    string
		name   string
		comm   string
		pid    int
		where  string
		limit  int
		asJSON bool
	)
	fs.StringVar(&typ, "type", "", "filter by event type")
	fs.StringVar(&name, "name", "", "filter by event name")
	fs.StringVar(&comm, "comm", "", "filter by process comm")
	fs.IntVar(&pid, "pid", -1, "filter by pid")
	fs.StringVar(&where, "where", "", `expression filter, e.g. 'data.ret < 0 && event == "openat"'`)
	fs.IntVar(&limit, "limit", 100, "maximum rows printed")
	fs.BoolVar(&asJSON, "json", false, "print rows as JSON")
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

	var prog *vm.Program
	if where != "" {
		prog, err = expr.Compile(where, expr.AllowUndefinedVariables(), expr.AsBool())
		if err != nil {
			return fmt.Errorf("compile --where: %w", err)
		}
	}

	opts := storage.QueryOptions{
		SessionID: sess.ID,
		Type:      typ,
		Event:     name,
		Comm:      comm,
		PID:       pid,
		Limit:     limit,
	}
	// --where filters after the sqlite query; fetch without the row cap so
	// the expression sees every candidate.
	if prog != nil {
		opts.Limit = 0
	}

	rows, err := queryRows(sess, opts)
	if err != nil {
		return err
	}
	if prog != nil {
		rows, err = filterWhere(rows, prog, limit)
		if err != nil {
			return err
		}
	}

	if asJSON {
		return printJSON(rows)
	}
	printRows(rows)
	return nil
}

// queryRows prefers the sqlite index, falling back to scanning the raw
// event log for never-analyzed sessions.
func queryRows(sess session, opts storage.QueryOptions) ([]storage.EventRow, error) {
	dbPath := filepath.Join(sess.Dir, sessions.SQLiteFile)
	db, err := storage.OpenSQLiteReadOnly(dbPath)
	if err == nil {
		defer db.Close()
		return db.Query(opts)
	}

	events, _, err := sess.loadEvents()
	if err != nil {
		return nil, err
	}
	return storage.FilterEvents(sess.ID, events, opts), nil
}

// filterWhere keeps rows for which the compiled expression is true.
func filterWhere(rows []storage.EventRow, prog *vm.Program, limit int) ([]storage.EventRow, error) {
	out := make([]storage.EventRow, 0, len(rows))
	for _, r := range rows {
		env := rowEnv(r)
		v, err := expr.Run(prog, env)
		if err != nil {
			return nil, fmt.Errorf("evaluate --where: %w", err)
		}
		if keep, _ := v.(bool); keep {
			out = append(out, r)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// rowEnv exposes one row to the expression. Absent pids stay -1, matching
// the index encoding.
func rowEnv(r storage.EventRow) map[string]any {
	data := map[string]any{}
	if r.DataJSON != "" {
		_ = json.Unmarshal([]byte(r.DataJSON), &data)
	}
	return map[string]any{
		"seq":     r.Seq,
		"ts":      r.TS,
		"ts_ns":   r.TSNS,
		"type":    r.Type,
		"event":   r.Event,
		"comm":    r.Comm,
		"pid":     r.PID,
		"tid":     r.TID,
		"ppid":    r.PPID,
		"decoded": r.Decoded,
		"data":    data,
	}
}

func printRows(rows []storage.EventRow) {
	if len(rows) == 0 {
		fmt.Println("no matching events")
		return
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		pid := ""
		if r.PID >= 0 {
			pid = strconv.Itoa(r.PID)
		}
		out = append(out, []string{
			strconv.FormatInt(r.Seq, 10), r.TS, r.Type, r.Event, r.Comm, pid, cliui.Truncate(r.Decoded, 48),
		})
	}
	cliui.RenderTable(os.Stdout, []cliui.Column{
		{Name: "seq", AlignRight: true},
		{Name: "ts"},
		{Name: "type"},
		{Name: "event"},
		{Name: "comm", MaxWidth: 20},
		{Name: "pid", AlignRight: true},
		{Name: "decoded", MaxWidth: 48},
	}, out)
	fmt.Printf("%d events\n", len(rows))
}
