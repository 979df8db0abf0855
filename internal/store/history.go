package store

import (
	"net/url"
	"sort"
	"time"

	api "github.com/visitorcount/countercheck/lib-countercheck"
)

type probeHistory struct {
	Target  *url.URL
	Records []api.Record
}

// append inserts a record in order of time, and drops old records over PROBE_HISTORY_LEN.
func (h *probeHistory) append(r api.Record) {
	i := len(h.Records)
	for i > 0 && h.Records[i-1].Time.After(r.Time) {
		i--
	}

	h.Records = append(h.Records, api.Record{})
	copy(h.Records[i+1:], h.Records[i:])
	h.Records[i] = r

	if len(h.Records) > PROBE_HISTORY_LEN {
		h.Records = h.Records[len(h.Records)-PROBE_HISTORY_LEN:]
	}
}

func (h *probeHistory) report() api.ProbeHistory {
	rs := make([]api.Record, len(h.Records))
	copy(rs, h.Records)

	ph := api.ProbeHistory{
		Target:  h.Target,
		Status:  api.StatusUnknown,
		Records: rs,
	}

	if len(rs) > 0 {
		latest := rs[len(rs)-1]
		ph.Status = latest.Status
		ph.Updated = latest.Time
	}

	return ph
}

// snapshot copies the history into a Report without ReportedAt.
// Caller must hold historyLock.
func (s *Store) snapshot() api.Report {
	r := api.Report{
		ProbeHistory:     make([]api.ProbeHistory, 0, len(s.probeHistory)),
		CurrentIncidents: make([]api.Incident, 0, len(s.currentIncidents)),
		IncidentHistory:  make([]api.Incident, 0, len(s.incidentHistory)),
	}

	for _, h := range s.probeHistory {
		r.ProbeHistory = append(r.ProbeHistory, h.report())
	}
	api.SortProbeHistories(r.ProbeHistory)

	for _, i := range s.currentIncidents {
		r.CurrentIncidents = append(r.CurrentIncidents, *i)
	}
	sort.Slice(r.CurrentIncidents, func(a, b int) bool {
		return r.CurrentIncidents[a].StartsAt.Before(r.CurrentIncidents[b].StartsAt)
	})

	for _, i := range s.incidentHistory {
		r.IncidentHistory = append(r.IncidentHistory, *i)
	}

	return r
}

// MakeReport creates a Report of the current state. Every part of it is taken at the same moment.
func (s *Store) MakeReport() api.Report {
	s.historyLock.RLock()
	r := s.snapshot()
	s.historyLock.RUnlock()

	r.ReportedAt = time.Now()
	return r
}

// ProbeHistory returns the recent records of each target, sorted by target URL.
func (s *Store) ProbeHistory() []api.ProbeHistory {
	return s.MakeReport().ProbeHistory
}

// CurrentIncidents returns incidents that are not resolved yet, oldest first.
func (s *Store) CurrentIncidents() []api.Incident {
	return s.MakeReport().CurrentIncidents
}

// IncidentHistory returns resolved incidents, oldest first.
func (s *Store) IncidentHistory() []api.Incident {
	return s.MakeReport().IncidentHistory
}

type memoryScanner struct {
	records []api.Record
	pos     int
}

func (s *Store) memoryScanner(p api.Period) *memoryScanner {
	s.historyLock.RLock()
	defer s.historyLock.RUnlock()

	var rs []api.Record
	for _, h := range s.probeHistory {
		for _, r := range h.Records {
			if p.Contains(r.Time) {
				rs = append(rs, r)
			}
		}
	}

	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].Time.Before(rs[j].Time)
	})

	return &memoryScanner{records: rs, pos: -1}
}

func (s *memoryScanner) Close() error {
	return nil
}

func (s *memoryScanner) Scan() bool {
	if s.pos+1 >= len(s.records) {
		return false
	}
	s.pos++
	return true
}

func (s *memoryScanner) Record() api.Record {
	return s.records[s.pos]
}
