package endpoint

import (
	api "github.com/visitorcount/countercheck/lib-countercheck"
)

type Store interface {
	// ProbeHistory returns a slice of ProbeHistory.
	ProbeHistory() []api.ProbeHistory

	// CurrentIncidents returns a slice of current incidents.
	CurrentIncidents() []api.Incident

	// IncidentHistory returns a slice of resolved incidents.
	IncidentHistory() []api.Incident

	// IncidentCount returns how many incidents began since the watcher started.
	IncidentCount() int

	// MakeReport creates a Report for /status.json.
	MakeReport() api.Report

	// ReportInternalError reports an error of countercheck itself.
	ReportInternalError(scope, message string)

	// Errors returns whether the log works, and recent internal error messages.
	Errors() (healthy bool, messages []string)

	// OpenLog opens the records in the period.
	OpenLog(p api.Period) (api.LogScanner, error)
}
