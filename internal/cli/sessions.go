package cli

import (
	"context"
	"flag"
	"os"
	"strconv"

	"github.com/seregni/tracelens/internal/cliui"
	"github.com/seregni/tracelens/internal/sessions"
)

// SessionsCommand lists captured sessions, oldest first.
func SessionsCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var asJSON bool
	fs.BoolVar(&asJSON, "json", false, "print sessions as JSON")
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
	ids, err := sessions.List(home)
	if err != nil {
		return err
	}

	metas := make([]sessions.Meta, 0, len(ids))
	for _, id := range ids {
		m, err := sessions.ReadMeta(sessions.Dir(home, id))
		if err != nil {
			// Interrupted captures may have no meta yet; list them anyway.
			m = sessions.Meta{SessionID: id}
		}
		metas = append(metas, m)
	}

	if asJSON {
		return printJSON(metas)
	}
	rows := make([][]string, 0, len(metas))
	for _, m := range metas {
		rows = append(rows, []string{
			m.SessionID, m.Start, m.Stop, strconv.Itoa(m.Events), m.Probe,
		})
	}
	cliui.RenderTable(os.Stdout, []cliui.Column{
		{Name: "session"},
		{Name: "start", MaxWidth: 30},
		{Name: "stop", MaxWidth: 30},
		{Name: "events", AlignRight: true},
		{Name: "probe", MaxWidth: 32},
	}, rows)
	return nil
}
