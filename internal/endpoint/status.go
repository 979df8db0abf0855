package endpoint

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/goccy/go-json"
	api "github.com/visitorcount/countercheck/lib-countercheck"
)

func historyBar(rs []api.Record) string {
	var sb strings.Builder
	for _, r := range rs {
		sb.WriteRune(r.Status.Mark())
	}
	return sb.String()
}

func writeStatusText(w io.Writer, report api.Report, incidents int) {
	if len(report.ProbeHistory) == 0 {
		fmt.Fprintln(w, "no check has run yet")
	}

	for _, h := range report.ProbeHistory {
		fmt.Fprintf(w, "[%s] %s\n", h.Status, h.Target.Redacted())

		if len(h.Records) > 0 {
			latest := h.Records[len(h.Records)-1]
			fmt.Fprintf(w, "  updated %s (%s), took %s\n", humanize.Time(h.Updated), h.Updated.Format(time.RFC3339), latest.Latency.Round(time.Millisecond))
			fmt.Fprintf(w, "  %s\n", latest.Message)
			if l, ok := latest.Extra["length"].(float64); ok {
				fmt.Fprintf(w, "  response body %s\n", humanize.Bytes(uint64(l)))
			} else if l, ok := latest.Extra["length"].(int64); ok {
				fmt.Fprintf(w, "  response body %s\n", humanize.Bytes(uint64(l)))
			}
		}

		fmt.Fprintf(w, "  history: %s\n", historyBar(h.Records))
	}

	if len(report.CurrentIncidents) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "current incidents:")
		for _, i := range report.CurrentIncidents {
			fmt.Fprintf(w, "  [%s] %s since %s: %s\n", i.Status, i.Target.Redacted(), humanize.Time(i.StartsAt), i.Message)
		}
	}

	if len(report.IncidentHistory) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "resolved incidents:")
		for idx := len(report.IncidentHistory) - 1; idx >= 0; idx-- {
			i := report.IncidentHistory[idx]
			fmt.Fprintf(w, "  [%s] %s for %s, until %s: %s\n", i.Status, i.Target.Redacted(), humanize.RelTime(i.StartsAt, i.EndsAt, "", ""), humanize.Time(i.EndsAt), i.Message)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s since the watcher started\n", english.Plural(incidents, "incident", ""))
	fmt.Fprintf(w, "reported at %s\n", report.ReportedAt.Format(time.RFC3339))
}

// StatusTextEndpoint is the http.HandlerFunc for /status.txt page.
func StatusTextEndpoint(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		writeStatusText(w, s.MakeReport(), s.IncidentCount())
	}
}

// HealthzEndpoint is the http.HandlerFunc for /healthz page.
//
// It tells whether the log of the watcher works. The health of the counter API is on /status.txt instead.
func HealthzEndpoint(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		healthy, messages := s.Errors()

		status, code := api.StatusHealthy, http.StatusOK
		if !healthy {
			status, code = api.StatusFailure, http.StatusInternalServerError
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(code)
		io.WriteString(w, strings.Join(append([]string{status.String()}, messages...), "\n")+"\n")
	}
}

// StatusJSONEndpoint is the http.HandlerFunc for /status.json page.
func StatusJSONEndpoint(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		handleError(s, "status.json", enc.Encode(s.MakeReport()))
	}
}
