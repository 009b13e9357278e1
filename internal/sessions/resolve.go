package sessions

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Resolve turns "last" or an explicit session id into a session directory.
func Resolve(home, sel string) (id string, dir string, err error) {
	sel = strings.TrimSpace(sel)
	if sel == "" || sel == "last" {
		id, err := lastID(home)
		if err != nil {
			return "", "", err
		}
		return id, Dir(home, id), nil
	}
	dir = Dir(home, sel)
	if _, err := os.Stat(dir); err != nil {
		return "", "", fmt.Errorf("session %q not found: %w", sel, err)
	}
	return sel, dir, nil
}

func lastID(home string) (string, error) {
	ids, err := List(home)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("no sessions found under %s", filepath.Join(home, "sessions"))
	}
	return ids[len(ids)-1], nil
}

// List returns all session ids, oldest first. Session ids sort
// chronologically by construction.
func List(home string) ([]string, error) {
	base := filepath.Join(home, "sessions")
	ents, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", base, err)
	}
	ids := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}
