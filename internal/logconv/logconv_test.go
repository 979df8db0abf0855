package logconv_test

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/visitorcount/countercheck/internal/logconv"
	api "github.com/visitorcount/countercheck/lib-countercheck"
	"github.com/xuri/excelize/v2"
)

const testLog = `{"time":"2021-01-02T15:04:05Z","status":"HEALTHY","latency":123.456,"target":"https://example.com/update_count","message":"count=42","check_id":"a","count":"42","http_status":200}
{"time":"2021-01-02T15:09:05Z","status":"FAILURE","latency":12.000,"target":"https://example.com/update_count","message":"status: expected 200 but got 500","http_status":500}
{"time":"2021-01-02T15:14:05Z","status":"FAILURE","latency":1.500,"target":"https://example.com/update_count","message":"multi\tline\nmessage"}
`

func openTestLog() api.LogScanner {
	return api.NewLogScanner(io.NopCloser(strings.NewReader(testLog)))
}

func TestToCSV(t *testing.T) {
	var w bytes.Buffer
	if err := logconv.ToCSV(&w, openTestLog()); err != nil {
		t.Fatalf("failed to convert: %s", err)
	}

	want := strings.Join([]string{
		`time,status,latency,target,message,http_status,count,extra`,
		`2021-01-02T15:04:05Z,HEALTHY,123.456,https://example.com/update_count,count=42,200,42,"{""check_id"":""a""}"`,
		`2021-01-02T15:09:05Z,FAILURE,12.000,https://example.com/update_count,status: expected 200 but got 500,500,,`,
		"2021-01-02T15:14:05Z,FAILURE,1.500,https://example.com/update_count,\"multi\tline\nmessage\",,,",
		``,
	}, "\n")

	if diff := cmp.Diff(want, w.String()); diff != "" {
		t.Errorf("unexpected output:\n%s", diff)
	}
}

func TestToLTSV(t *testing.T) {
	var w bytes.Buffer
	if err := logconv.ToLTSV(&w, openTestLog()); err != nil {
		t.Fatalf("failed to convert: %s", err)
	}

	want := strings.Join([]string{
		"time:2021-01-02T15:04:05Z\tstatus:HEALTHY\tlatency:123.456\ttarget:https://example.com/update_count\tmessage:count=42\tcheck_id:a\tcount:42\thttp_status:200",
		"time:2021-01-02T15:09:05Z\tstatus:FAILURE\tlatency:12.000\ttarget:https://example.com/update_count\tmessage:status: expected 200 but got 500\thttp_status:500",
		"time:2021-01-02T15:14:05Z\tstatus:FAILURE\tlatency:1.500\ttarget:https://example.com/update_count\tmessage:multi\\tline\\nmessage",
		"",
	}, "\n")

	if diff := cmp.Diff(want, w.String()); diff != "" {
		t.Errorf("unexpected output:\n%s", diff)
	}
}

func TestToJSON(t *testing.T) {
	var w bytes.Buffer
	if err := logconv.ToJSON(&w, openTestLog()); err != nil {
		t.Fatalf("failed to convert: %s", err)
	}

	lines := strings.Split(strings.TrimSpace(testLog), "\n")
	want := "[\n  " + strings.Join(lines, ",\n  ") + "\n]\n"

	if diff := cmp.Diff(want, w.String()); diff != "" {
		t.Errorf("unexpected output:\n%s", diff)
	}
}

func TestToJSON_empty(t *testing.T) {
	var w bytes.Buffer
	if err := logconv.ToJSON(&w, api.NewLogScanner(io.NopCloser(strings.NewReader("")))); err != nil {
		t.Fatalf("failed to convert: %s", err)
	}

	if w.String() != "[]\n" {
		t.Errorf("unexpected output: %q", w.String())
	}
}

func TestToXlsx(t *testing.T) {
	var w bytes.Buffer
	if err := logconv.ToXlsx(&w, openTestLog(), time.Date(2001, 2, 3, 15, 4, 5, 6, time.UTC)); err != nil {
		t.Fatalf("failed to convert: %s", err)
	}

	f, err := excelize.OpenReader(&w)
	if err != nil {
		t.Fatalf("failed to open generated xlsx: %s", err)
	}
	defer f.Close()

	rows, err := f.GetRows("log")
	if err != nil {
		t.Fatalf("failed to read rows: %s", err)
	}

	if len(rows) != 4 {
		t.Fatalf("unexpected number of rows: %d", len(rows))
	}

	if diff := cmp.Diff([]string{"time (UTC)", "status", "latency", "target", "message", "http_status", "count"}, rows[0]); diff != "" {
		t.Errorf("unexpected header:\n%s", diff)
	}

	tests := []struct {
		Cell string
		Want string
	}{
		{"B2", "HEALTHY"},
		{"D2", "https://example.com/update_count"},
		{"F2", "200"},
		{"G2", "42"},
		{"B3", "FAILURE"},
		{"E3", "status: expected 200 but got 500"},
	}
	for _, tt := range tests {
		v, err := f.GetCellValue("log", tt.Cell)
		if err != nil {
			t.Errorf("%s: failed to get value: %s", tt.Cell, err)
		} else if v != tt.Want {
			t.Errorf("%s: expected %q but got %q", tt.Cell, tt.Want, v)
		}
	}
}
