package logconv

import (
	"fmt"
	"io"
	"strings"
	"time"

	api "github.com/visitorcount/countercheck/lib-countercheck"
)

var ltsvEscaper = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

func ToLTSV(w io.Writer, s api.LogScanner) error {
	for s.Scan() {
		r := s.Record()

		_, err := fmt.Fprintf(
			w,
			"time:%s\tstatus:%s\tlatency:%.3f\ttarget:%s",
			r.Time.Format(time.RFC3339),
			r.Status,
			float64(r.Latency.Microseconds())/1000,
			r.Target.Redacted(),
		)
		if err != nil {
			return err
		}

		if r.Message != "" {
			if _, err := fmt.Fprintf(w, "\tmessage:%s", ltsvEscaper.Replace(r.Message)); err != nil {
				return err
			}
		}

		for _, e := range r.ReadableExtra() {
			if _, err := fmt.Fprintf(w, "\t%s:%s", e.Key, ltsvEscaper.Replace(e.Value)); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}
