package logconv

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	api "github.com/visitorcount/countercheck/lib-countercheck"
)

func ToCSV(w io.Writer, s api.LogScanner) error {
	c := csv.NewWriter(w)

	err := c.Write([]string{"time", "status", "latency", "target", "message", "http_status", "count", "extra"})
	if err != nil {
		return err
	}

	for s.Scan() {
		r := s.Record()

		httpStatus, count, rest := splitExtra(r)

		var extra []byte
		if len(rest) > 0 {
			// Use empty string if failed to encode.
			extra, _ = json.Marshal(rest)
		}

		err := c.Write([]string{
			r.Time.Format(time.RFC3339),
			r.Status.String(),
			strconv.FormatFloat(float64(r.Latency.Microseconds())/1000, 'f', 3, 64),
			r.Target.Redacted(),
			r.Message,
			httpStatus,
			count,
			string(extra),
		})
		if err != nil {
			return err
		}
	}

	c.Flush()

	return c.Error()
}

// splitExtra picks up the well known extra values of the counter probe.
func splitExtra(r api.Record) (httpStatus, count string, rest map[string]interface{}) {
	for k, v := range r.Extra {
		switch k {
		case "http_status":
			switch x := v.(type) {
			case float64:
				httpStatus = strconv.FormatFloat(x, 'f', -1, 64)
			case int:
				httpStatus = strconv.Itoa(x)
			}
		case "count":
			count, _ = v.(string)
		default:
			if rest == nil {
				rest = make(map[string]interface{})
			}
			rest[k] = v
		}
	}
	return
}
