package store

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync"
	"time"

	api "github.com/visitorcount/countercheck/lib-countercheck"
)

const (
	PROBE_HISTORY_LEN    = 60
	INCIDENT_HISTORY_LEN = 20

	// InternalScheme is the scheme of targets that countercheck itself reports, like "countercheck:log".
	InternalScheme = "countercheck"
)

type RecordHandler func(api.Record)

// Store is the log writer of countercheck, and it also keeps recent records in memory.
type Store struct {
	path string

	Console io.Writer

	historyLock      sync.RWMutex
	probeHistory     map[string]*probeHistory
	currentIncidents map[string]*api.Incident
	incidentHistory  []*api.Incident

	// OnStatusChanged is called when an incident begins, and when a target recovers.
	// Handlers run after the history is updated, so they may read the Store.
	OnStatusChanged []RecordHandler
	incidentCount   int

	writeCh       chan<- api.Record
	writerStopped chan struct{}
	health        logHealth
}

// New creates a Store.
//
// Records are written to console as JSON lines. They are also appended to the file at path if path is not empty.
func New(path string, console io.Writer) (*Store, error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	ch := make(chan api.Record, 32)

	s := &Store{
		path:             path,
		Console:          console,
		probeHistory:     make(map[string]*probeHistory),
		currentIncidents: make(map[string]*api.Incident),
		writeCh:          ch,
		writerStopped:    make(chan struct{}),
	}

	go s.writer(ch, s.writerStopped)

	return s, nil
}

// Path returns path to log file.
func (s *Store) Path() string {
	return s.path
}

// IncidentCount returns how many incidents began since the Store created.
func (s *Store) IncidentCount() int {
	s.historyLock.RLock()
	defer s.historyLock.RUnlock()

	return s.incidentCount
}

// ReportInternalError reports a failure of countercheck itself, as a record of "countercheck:<scope>".
func (s *Store) ReportInternalError(scope, message string) {
	u := &url.URL{Scheme: InternalScheme, Opaque: scope}

	s.Report(u, api.Record{
		Time:    time.Now(),
		Status:  api.StatusFailure,
		Target:  u,
		Message: message,
	})
}

// logFailure marks the log file broken, and reports err to the console.
// The console is written directly because the log file is not usable.
func (s *Store) logFailure(err error) {
	var ae appendError
	for _, e := range flatten(err) {
		if errors.As(e, &ae) {
			s.health.fail(ae.Summary)
		}
	}

	line := api.Record{
		Time:    time.Now(),
		Status:  api.StatusFailure,
		Target:  &url.URL{Scheme: InternalScheme, Opaque: "log"},
		Message: err.Error(),
	}.String() + "\n"
	io.WriteString(s.Console, line)
}

// flatten returns the errors that errors.Join joined, or err itself.
func flatten(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

func (s *Store) writer(ch <-chan api.Record, stopped chan struct{}) {
	defer close(stopped)

	for r := range ch {
		line := []byte(r.String() + "\n")
		s.Console.Write(line)

		if s.path == "" {
			continue
		}
		if err := appendLine(s.path, line); err != nil {
			s.logFailure(err)
		} else {
			s.health.recover()
		}
	}
}

// Close waits until all reported records are written.
// Report must not be called after Close.
func (s *Store) Close() error {
	close(s.writeCh)
	<-s.writerStopped
	return nil
}

// Report writes a record to the log, and updates the history.
//
// Records of InternalScheme are written but not kept in the history.
func (s *Store) Report(source *url.URL, r api.Record) {
	if r.Target == nil {
		r.Target = source
	}
	if r.Time.IsZero() {
		r.Time = time.Now()
	}

	s.writeCh <- r

	if r.Target.Scheme == InternalScheme {
		return
	}

	s.historyLock.Lock()
	changed := s.addRecord(r, true)
	s.historyLock.Unlock()

	if changed {
		for _, cb := range s.OnStatusChanged {
			cb(r)
		}
	}
}

// addRecord appends a record to the history and updates incidents.
// It reports whether an incident began or the target recovered. Incidents in records that are not live are not counted.
// Caller must hold historyLock.
func (s *Store) addRecord(r api.Record, live bool) (changed bool) {
	target := r.Target.String()

	h, ok := s.probeHistory[target]
	if !ok {
		h = &probeHistory{Target: r.Target}
		s.probeHistory[target] = h
	}
	h.append(r)

	if r.Status == api.StatusAborted {
		return false
	}

	if cur, ok := s.currentIncidents[target]; ok {
		if cur.Status == r.Status && cur.Message == r.Message {
			return false
		}

		cur.EndsAt = r.Time
		delete(s.currentIncidents, target)

		s.incidentHistory = append(s.incidentHistory, cur)
		if len(s.incidentHistory) > INCIDENT_HISTORY_LEN {
			s.incidentHistory = s.incidentHistory[len(s.incidentHistory)-INCIDENT_HISTORY_LEN:]
		}

		changed = r.Status == api.StatusHealthy
	}

	if r.Status != api.StatusHealthy {
		s.currentIncidents[target] = &api.Incident{
			Target:   r.Target,
			Status:   r.Status,
			Message:  r.Message,
			StartsAt: r.Time,
		}

		if live {
			s.incidentCount++
		}
		changed = true
	}

	return changed && live
}

// Restore loads the history from the log file.
// It does nothing if the Store has no log file.
func (s *Store) Restore() error {
	if s.path == "" {
		return nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	scanner := api.NewLogScanner(f)
	defer scanner.Close()

	s.historyLock.Lock()
	defer s.historyLock.Unlock()

	for scanner.Scan() {
		r := scanner.Record()
		if r.Target.Scheme == InternalScheme {
			continue
		}
		s.addRecord(r, false)
	}

	return nil
}

// OpenLog opens the records in p.
//
// It reads the log file if the Store has one. Otherwise it reads the records in memory.
func (s *Store) OpenLog(p api.Period) (api.LogScanner, error) {
	if s.path == "" {
		return s.memoryScanner(p), nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return api.NewPeriodScanner(f, p), nil
}

// Errors reports whether the log file is writable, and the recent failures of writing it.
func (s *Store) Errors() (healthy bool, messages []string) {
	return s.health.status()
}
