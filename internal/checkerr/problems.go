package checkerr

import (
	"errors"
	"fmt"
	"strings"
)

// Problems collects everything wrong with an input so that the user sees all of it at once.
type Problems struct {
	Kind  error
	found []error
}

// Add records err. A nil err is ignored, and the problems of a ProblemList are merged one by one.
func (p *Problems) Add(err error) {
	var l ProblemList
	switch {
	case err == nil:
	case errors.As(err, &l):
		p.found = append(p.found, l.Problems...)
	default:
		p.found = append(p.found, err)
	}
}

// Addf records a problem made by fmt.Errorf.
func (p *Problems) Addf(format string, args ...interface{}) {
	p.found = append(p.found, fmt.Errorf(format, args...))
}

// Err returns a ProblemList, or nil if nothing was recorded.
func (p *Problems) Err() error {
	if len(p.found) == 0 {
		return nil
	}
	return ProblemList{Kind: p.Kind, Problems: p.found}
}

// ProblemList is the error that Problems.Err returns.
type ProblemList struct {
	Kind     error
	Problems []error
}

// Error puts Kind on the first line, and each problem on an indented line after it.
func (l ProblemList) Error() string {
	lines := []string{l.Kind.Error() + ":"}
	for _, p := range l.Problems {
		for _, s := range strings.Split(p.Error(), "\n") {
			lines = append(lines, "  "+s)
		}
	}
	return strings.Join(lines, "\n")
}

func (l ProblemList) Unwrap() []error {
	return append([]error{l.Kind}, l.Problems...)
}
