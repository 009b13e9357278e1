package sessions

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// NewID allocates a unique session id under <home>/sessions.
// Format: YYYYMMDD-HHMMSS[-N]
func NewID(home string, now time.Time) (string, error) {
	base := now.UTC().Format("20060102-150405")
	id := base
	for i := 1; i < 1000; i++ {
		p := filepath.Join(home, "sessions", id)
		_, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return id, nil
			}
			return "", fmt.Errorf("stat %s: %w", p, err)
		}
		id = fmt.Sprintf("%s-%d", base, i+1)
	}
	return "", fmt.Errorf("unable to allocate unique session id for base %q", base)
}
