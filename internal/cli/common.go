// Package cli implements the tracelens subcommands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/seregni/tracelens/internal/config"
	"github.com/seregni/tracelens/internal/event"
	"github.com/seregni/tracelens/internal/sessions"
)

// session bundles everything a command needs about one resolved session.
type session struct {
	ID   string
	Dir  string
	Meta sessions.Meta
}

// resolveSession turns a positional selector ("", "last", or an id) into a
// session. Meta is best-effort: a capture interrupted before meta was
// written is still analyzable.
func resolveSession(cfg *config.Config, sel string) (session, error) {
	home, err := cfg.HomeDir()
	if err != nil {
		return session{}, err
	}
	id, dir, err := sessions.Resolve(home, sel)
	if err != nil {
		return session{}, err
	}
	meta, err := sessions.ReadMeta(dir)
	if err != nil {
		meta = sessions.Meta{SessionID: id}
	}
	return session{ID: id, Dir: dir, Meta: meta}, nil
}

// loadEvents reads the session's event log in arrival order.
func (s session) loadEvents() ([]event.Event, int, error) {
	return event.ReadLog(filepath.Join(s.Dir, sessions.EventsFile))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
