package countercheck

import (
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// Incident is a period that a target kept the same non-healthy status and message.
type Incident struct {
	Target *url.URL

	Status Status

	Message string

	// StartsAt is the time of the first record of the incident.
	StartsAt time.Time

	// EndsAt is the time of the record that ended the incident.
	// It is zero if the incident is still going on.
	EndsAt time.Time
}

type jsonIncident struct {
	Target   string `json:"target"`
	Status   Status `json:"status"`
	Message  string `json:"message"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (i Incident) MarshalJSON() ([]byte, error) {
	ji := jsonIncident{
		Status:   i.Status,
		Message:  i.Message,
		StartsAt: i.StartsAt.Format(time.RFC3339),
	}
	if i.Target != nil {
		ji.Target = i.Target.Redacted()
	}
	if !i.EndsAt.IsZero() {
		ji.EndsAt = i.EndsAt.Format(time.RFC3339)
	}
	return json.Marshal(ji)
}

// IsResolved reports whether the incident already ended.
func (i Incident) IsResolved() bool {
	return !i.EndsAt.IsZero()
}
