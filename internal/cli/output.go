package cli

import (
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"
)

// Status words printed by the lock commands.
const (
	StatusReady      = "ready"
	StatusAcquired   = "acquired"
	StatusWouldBlock = "would-block"
	StatusReleased   = "released"
)

// closeTimeout bounds session teardown after a command finishes.
const closeTimeout = 2 * time.Second

// lockReport is one line of lock command output.
type lockReport struct {
	Status string `json:"status"`
	Path   string `json:"path"`
	Mode   string `json:"mode"`
}

// writeReport prints r as a bare status word or as a JSON object.
func writeReport(w io.Writer, format string, r lockReport) error {
	if format == OutputJSON {
		return json.NewEncoder(w).Encode(r)
	}
	_, err := fmt.Fprintln(w, r.Status)
	return err
}
