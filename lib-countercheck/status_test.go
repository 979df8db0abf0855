package countercheck_test

import (
	"testing"

	api "github.com/visitorcount/countercheck/lib-countercheck"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		Status api.Status
		Name   string
		Mark   rune
	}{
		{api.StatusHealthy, "HEALTHY", '✓'},
		{api.StatusFailure, "FAILURE", '!'},
		{api.StatusAborted, "ABORTED", '-'},
		{api.StatusUnknown, "UNKNOWN", '?'},
		{api.Status(42), "UNKNOWN", '?'},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			b, err := tt.Status.MarshalText()
			if err != nil {
				t.Fatalf("failed to marshal: %s", err)
			}
			if string(b) != tt.Name {
				t.Errorf("expected %s but got %s", tt.Name, b)
			}

			if m := tt.Status.Mark(); m != tt.Mark {
				t.Errorf("expected mark %c but got %c", tt.Mark, m)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		Input string
		Want  api.Status
	}{
		{"HEALTHY", api.StatusHealthy},
		{"healthy", api.StatusHealthy},
		{"Failure", api.StatusFailure},
		{"ABORTED", api.StatusAborted},
		{"UNKNOWN", api.StatusUnknown},
		{"something", api.StatusUnknown},
		{"", api.StatusUnknown},
	}

	for _, tt := range tests {
		var s api.Status
		if err := s.UnmarshalText([]byte(tt.Input)); err != nil {
			t.Fatalf("%q: failed to unmarshal: %s", tt.Input, err)
		}
		if s != tt.Want {
			t.Errorf("%q: expected %s but got %s", tt.Input, tt.Want, s)
		}
	}
}
