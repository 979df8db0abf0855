package store

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// maxHealthMessages is how many recent failures /healthz shows.
const maxHealthMessages = 10

// logHealth tracks whether the log file is writable.
type logHealth struct {
	sync.RWMutex

	broken bool
	recent []string
}

func (h *logHealth) fail(summary string) {
	h.Lock()
	defer h.Unlock()

	h.broken = true
	h.recent = append(h.recent, time.Now().Format(time.RFC3339)+"\t"+summary)
	if len(h.recent) > maxHealthMessages {
		h.recent = h.recent[len(h.recent)-maxHealthMessages:]
	}
}

// recover marks the log as writable again. The messages of past failures are kept.
func (h *logHealth) recover() {
	h.Lock()
	defer h.Unlock()

	h.broken = false
}

func (h *logHealth) status() (healthy bool, messages []string) {
	h.RLock()
	defer h.RUnlock()

	return !h.broken, append([]string{}, h.recent...)
}

// appendError is a failure of appending a line to the log file.
// Summary does not include the path or the OS error, so it is safe to show on /healthz.
type appendError struct {
	Summary string
	Cause   error
}

func (e appendError) Error() string {
	return fmt.Sprintf("%s: %s", e.Summary, e.Cause)
}

func (e appendError) Unwrap() error {
	return e.Cause
}

// appendLine appends line to the file at path.
// The file is opened for each line, so a rotated log file is followed without restart.
func appendLine(path string, line []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return appendError{"failed to open log file", err}
	}

	var errs []error
	if _, err := f.Write(line); err != nil {
		errs = append(errs, appendError{"failed to write log file", err})
	}
	if err := f.Close(); err != nil {
		errs = append(errs, appendError{"failed to close log file", err})
	}
	return errors.Join(errs...)
}
