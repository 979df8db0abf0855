package endpoint

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/visitorcount/countercheck/internal/logconv"
	api "github.com/visitorcount/countercheck/lib-countercheck"
)

const defaultLogPeriod = 7 * 24 * time.Hour

// parseLogPeriod reads "since" and "until" queries in the format of api.ParseTime.
// The default period is the last 7 days.
func parseLogPeriod(r *http.Request) (p api.Period, err error) {
	qs := r.URL.Query()

	p.Until = time.Now().Add(time.Second)
	if s := qs.Get("until"); s != "" {
		if p.Until, err = api.ParseTime(s); err != nil {
			return p, fmt.Errorf("invalid until: %w", err)
		}
	}

	p.Since = p.Until.Add(-defaultLogPeriod)
	if s := qs.Get("since"); s != "" {
		if p.Since, err = api.ParseTime(s); err != nil {
			return p, fmt.Errorf("invalid since: %w", err)
		}
	}

	return p, nil
}

func logEndpoint(s Store, scope, contentType string, conv func(io.Writer, api.LogScanner) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := parseLogPeriod(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		scanner, err := s.OpenLog(period)
		if err != nil {
			handleError(s, scope, err)
			http.Error(w, "failed to open log", http.StatusInternalServerError)
			return
		}
		defer scanner.Close()

		w.Header().Set("Content-Type", contentType)
		handleError(s, scope, conv(w, scanner))
	}
}

// LogJSONEndpoint is the http.HandlerFunc for /log.json page.
func LogJSONEndpoint(s Store) http.HandlerFunc {
	return logEndpoint(s, "log.json", "application/json", logconv.ToJSON)
}

// LogCSVEndpoint is the http.HandlerFunc for /log.csv page.
func LogCSVEndpoint(s Store) http.HandlerFunc {
	return logEndpoint(s, "log.csv", "text/csv; charset=utf-8", logconv.ToCSV)
}

// LogLTSVEndpoint is the http.HandlerFunc for /log.ltsv page.
func LogLTSVEndpoint(s Store) http.HandlerFunc {
	return logEndpoint(s, "log.ltsv", "text/plain; charset=utf-8", logconv.ToLTSV)
}
