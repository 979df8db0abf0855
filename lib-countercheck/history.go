package countercheck

import (
	"net/url"
	"sort"
	"time"

	"github.com/goccy/go-json"
)

// ProbeHistory is the recent records of a target.
type ProbeHistory struct {
	Target *url.URL

	// Status is the status of the latest record.
	Status Status

	// Updated is the time of the latest record.
	Updated time.Time

	// Records is the recent records in order of time, oldest first.
	Records []Record
}

type jsonProbeHistory struct {
	Target  string   `json:"target"`
	Status  Status   `json:"status"`
	Updated string   `json:"updated,omitempty"`
	Records []Record `json:"records"`
}

// MarshalJSON implements json.Marshaler.
func (ph ProbeHistory) MarshalJSON() ([]byte, error) {
	jh := jsonProbeHistory{
		Status:  ph.Status,
		Records: ph.Records,
	}
	if ph.Target != nil {
		jh.Target = ph.Target.Redacted()
	}
	if !ph.Updated.IsZero() {
		jh.Updated = ph.Updated.Format(time.RFC3339)
	}
	if jh.Records == nil {
		jh.Records = []Record{}
	}
	return json.Marshal(jh)
}

// SortProbeHistories sorts list of ProbeHistory by target URL.
func SortProbeHistories(hs []ProbeHistory) {
	sort.Slice(hs, func(i, j int) bool {
		return hs[i].Target.String() < hs[j].Target.String()
	})
}
