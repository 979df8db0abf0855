package countercheck_test

import (
	"errors"
	"testing"
	"time"

	api "github.com/visitorcount/countercheck/lib-countercheck"
)

func TestParseTime(t *testing.T) {
	t.Parallel()

	jst := time.FixedZone("", 9*60*60)

	tests := []struct {
		Input string
		Want  time.Time
	}{
		{"2021-01-02T15:04:05Z", time.Date(2021, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"2021-01-02t15:04:05z", time.Date(2021, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"2021-01-02T15:04:05+09:00", time.Date(2021, 1, 2, 15, 4, 5, 0, jst)},
		{"2021-01-02 15:04:05.123Z", time.Date(2021, 1, 2, 15, 4, 5, 123000000, time.UTC)},
		{"2021-01-02_15:04Z", time.Date(2021, 1, 2, 15, 4, 0, 0, time.UTC)},
		{"20210102T150405+0900", time.Date(2021, 1, 2, 15, 4, 5, 0, jst)},
		{"20210102 150405+09", time.Date(2021, 1, 2, 15, 4, 5, 0, jst)},
		{" 2021-01-02 ", time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"20210102", time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.Input, func(t *testing.T) {
			got, err := api.ParseTime(tt.Input)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if !got.Equal(tt.Want) {
				t.Errorf("expected %s but got %s", tt.Want, got)
			}
		})
	}
}

func TestParseTime_invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "yesterday", "2021-13-01", "2021-01-02T15:04:05", "1609599845"} {
		if _, err := api.ParseTime(input); !errors.Is(err, api.ErrInvalidTime) {
			t.Errorf("%q: expected ErrInvalidTime but got %v", input, err)
		}
	}
}
