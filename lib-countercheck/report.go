package countercheck

import (
	"time"

	"github.com/goccy/go-json"
)

// Report is the whole state of a watcher, served as /status.json.
type Report struct {
	ProbeHistory []ProbeHistory

	// CurrentIncidents is the list of Incident that is not resolved yet.
	CurrentIncidents []Incident

	// IncidentHistory is the list of resolved Incident, oldest first.
	IncidentHistory []Incident

	ReportedAt time.Time
}

type jsonReport struct {
	ProbeHistory     []ProbeHistory `json:"probe_history"`
	CurrentIncidents []Incident     `json:"current_incidents"`
	IncidentHistory  []Incident     `json:"incident_history"`
	ReportedAt       string         `json:"reported_at"`
}

// MarshalJSON implements json.Marshaler.
func (r Report) MarshalJSON() ([]byte, error) {
	jr := jsonReport{
		ProbeHistory:     r.ProbeHistory,
		CurrentIncidents: r.CurrentIncidents,
		IncidentHistory:  r.IncidentHistory,
		ReportedAt:       r.ReportedAt.Format(time.RFC3339),
	}
	if jr.ProbeHistory == nil {
		jr.ProbeHistory = []ProbeHistory{}
	}
	if jr.CurrentIncidents == nil {
		jr.CurrentIncidents = []Incident{}
	}
	if jr.IncidentHistory == nil {
		jr.IncidentHistory = []Incident{}
	}
	return json.Marshal(jr)
}
