package countercheck

import (
	"strings"
)

// Status is the result of a check. The zero value is StatusUnknown.
type Status int8

const (
	// StatusUnknown means the check could not tell the state of the counter, like when the host of the endpoint does not exist.
	StatusUnknown Status = iota

	// StatusHealthy means the endpoint answered 200 and the count field is a string.
	StatusHealthy

	// StatusFailure means the endpoint is unreachable, or answered with an unexpected status or count type.
	StatusFailure

	// StatusAborted means the check was stopped before it completed, for example by SIGINT.
	StatusAborted
)

// statusLabels has the log name and the history mark of each Status, in the order of the constants.
var statusLabels = [...]struct {
	Name string
	Mark rune
}{
	StatusUnknown: {"UNKNOWN", '?'},
	StatusHealthy: {"HEALTHY", '✓'},
	StatusFailure: {"FAILURE", '!'},
	StatusAborted: {"ABORTED", '-'},
}

// ParseStatus parses a status name, ignoring its case. An unknown name is StatusUnknown.
func ParseStatus(raw string) Status {
	for s, l := range statusLabels {
		if strings.EqualFold(raw, l.Name) {
			return Status(s)
		}
	}
	return StatusUnknown
}

func (s Status) label() (name string, mark rune) {
	if s < 0 || int(s) >= len(statusLabels) {
		s = StatusUnknown
	}
	l := statusLabels[s]
	return l.Name, l.Mark
}

// String returns the name of s in the log, like "HEALTHY".
func (s Status) String() string {
	name, _ := s.label()
	return name
}

// Mark returns the single character that stands for s in a history line, like '✓' for StatusHealthy.
func (s Status) Mark() rune {
	_, mark := s.label()
	return mark
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText never fails. An unknown name becomes StatusUnknown.
func (s *Status) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}
