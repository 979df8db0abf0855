package countercheck

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/visitorcount/countercheck/internal/checkerr"
)

// Record is a line of the countercheck log.
//
// A Record is serialized as a JSON object in a single line, like below.
//
//	{"time":"2026-01-02T15:04:05Z","status":"HEALTHY","latency":123.456,"target":"https://example.com/update_count","message":"count=42","http_status":200}
type Record struct {
	// Time is the time the check started.
	Time time.Time

	Status Status

	Latency time.Duration

	Target *url.URL

	// Message is the reason of the status, or a short summary of the response.
	Message string

	// Extra holds additional values like the HTTP status code or the observed count.
	// The keys "time", "status", "latency", "target" and "message" are ignored.
	Extra map[string]interface{}
}

func isReservedKey(key string) bool {
	switch key {
	case "time", "status", "latency", "target", "message":
		return true
	}
	return false
}

// ParseRecord parses a line of the log.
//
// The error is always ErrInvalidRecord or ErrEmptyTarget, even if the line is not JSON at all.
func ParseRecord(s string) (Record, error) {
	var r Record
	err := json.Unmarshal([]byte(s), &r)
	if err != nil && !errors.Is(err, ErrInvalidRecord) && !errors.Is(err, ErrEmptyTarget) {
		err = checkerr.Wrap(ErrInvalidRecord, err, "")
	}
	return r, err
}

func writeJSONValue(buf *bytes.Buffer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	target := ""
	if r.Target != nil {
		target = r.Target.Redacted()
	}

	var buf bytes.Buffer

	buf.WriteString(`{"time":"`)
	buf.WriteString(r.Time.Format(time.RFC3339))
	buf.WriteString(`","status":"`)
	buf.WriteString(r.Status.String())
	buf.WriteString(`","latency":`)
	buf.WriteString(strconv.FormatFloat(float64(r.Latency.Microseconds())/1000, 'f', 3, 64))
	buf.WriteString(`,"target":`)
	if err := writeJSONValue(&buf, target); err != nil {
		return nil, err
	}
	buf.WriteString(`,"message":`)
	if err := writeJSONValue(&buf, r.Message); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		if !isReservedKey(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		buf.WriteByte(',')
		if err := writeJSONValue(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONValue(&buf, r.Extra[k]); err != nil {
			return nil, checkerr.Wrap(ErrInvalidRecord, err, "failed to encode extra value %q", k)
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return checkerr.Wrap(ErrInvalidRecord, err, "")
	}

	var rec Record

	if s, ok := raw["time"].(string); !ok {
		return checkerr.Wrap(ErrInvalidRecord, nil, "invalid record: time is required")
	} else if t, err := time.Parse(time.RFC3339, s); err != nil {
		return checkerr.Wrap(ErrInvalidRecord, err, "invalid record: time")
	} else {
		rec.Time = t
	}

	if s, ok := raw["status"].(string); ok {
		rec.Status = ParseStatus(s)
	}

	switch l := raw["latency"].(type) {
	case float64:
		rec.Latency = time.Duration(l * float64(time.Millisecond))
	case nil:
	default:
		return checkerr.Wrap(ErrInvalidRecord, nil, "invalid record: latency should be a number but got %T", l)
	}

	if s, ok := raw["target"].(string); !ok || s == "" {
		return ErrEmptyTarget
	} else if u, err := url.Parse(s); err != nil {
		return checkerr.Wrap(ErrInvalidRecord, err, "invalid record: target")
	} else {
		rec.Target = u
	}

	if s, ok := raw["message"].(string); ok {
		rec.Message = s
	}

	for k, v := range raw {
		if isReservedKey(k) {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]interface{})
		}
		rec.Extra[k] = v
	}

	*r = rec
	return nil
}

// String returns the record as a log line.
func (r Record) String() string {
	b, err := r.MarshalJSON()
	if err != nil {
		return fmt.Sprintf(`{"time":"%s","status":"UNKNOWN","latency":0.000,"target":"countercheck:log","message":%q}`, r.Time.Format(time.RFC3339), err.Error())
	}
	return string(b)
}

// ExtraPair is a pair of key and readable value of the Record.Extra.
type ExtraPair struct {
	Key   string
	Value string
}

// ReadableExtra returns the Extra as a sorted list of strings.
// Strings are returned as-is, and other values are encoded as JSON.
func (r Record) ReadableExtra() []ExtraPair {
	var xs []ExtraPair
	for k, v := range r.Extra {
		if isReservedKey(k) {
			continue
		}
		s, ok := v.(string)
		if !ok {
			b, err := json.Marshal(v)
			if err != nil {
				continue
			}
			s = string(b)
		}
		xs = append(xs, ExtraPair{k, s})
	}
	sort.Slice(xs, func(i, j int) bool {
		return xs[i].Key < xs[j].Key
	})
	return xs
}
