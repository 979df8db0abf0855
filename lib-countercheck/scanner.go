package countercheck

import (
	"bufio"
	"bytes"
	"io"
	"time"
)

// maxLineSize is the longest line that a LogScanner parses. Longer lines are skipped like broken ones.
const maxLineSize = 1024 * 1024

// Period is the range of time [Since, Until). A zero Since or Until means no bound on that side.
type Period struct {
	Since time.Time
	Until time.Time
}

// Contains reports whether t is in p.
func (p Period) Contains(t time.Time) bool {
	return (p.Since.IsZero() || !t.Before(p.Since)) && !p.Ended(t)
}

// Ended reports whether t is at or after the end of p.
func (p Period) Ended(t time.Time) bool {
	return !p.Until.IsZero() && !t.Before(p.Until)
}

// LogScanner reads records from a countercheck log.
type LogScanner interface {
	Close() error

	// Scan moves to the next record. It returns false at the end.
	Scan() bool

	// Record returns the record that the last Scan moved to.
	Record() Record
}

// NewLogScanner reads all valid records in r. Lines that are not a record are skipped.
func NewLogScanner(r io.ReadCloser) LogScanner {
	return NewPeriodScanner(r, Period{})
}

// NewPeriodScanner reads the records in p from r.
//
// The log is assumed to be in time order, so the scanner stops at the first record after p.
func NewPeriodScanner(r io.ReadCloser, p Period) LogScanner {
	return &lineScanner{
		src:    r,
		lines:  bufio.NewReaderSize(r, 64*1024),
		period: p,
	}
}

type lineScanner struct {
	src    io.Closer
	lines  *bufio.Reader
	period Period
	cur    Record
	eof    bool
}

func (s *lineScanner) Close() error {
	return s.src.Close()
}

func (s *lineScanner) Scan() bool {
	for !s.eof {
		line, err := s.lines.ReadBytes('\n')
		if err != nil {
			s.eof = true
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 || len(line) > maxLineSize {
			continue
		}

		rec, err := ParseRecord(string(line))
		switch {
		case err != nil:
		case s.period.Ended(rec.Time):
			s.eof = true
			return false
		case s.period.Contains(rec.Time):
			s.cur = rec
			return true
		}
	}
	return false
}

func (s *lineScanner) Record() Record {
	return s.cur
}
