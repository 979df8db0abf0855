package countercheck

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidTime = errors.New("invalid time")

	timeLayouts = buildTimeLayouts()
)

func buildTimeLayouts() []string {
	dates := []string{"2006-01-02", "20060102"}
	seps := []string{"T", " ", "_"}
	clocks := []string{"15:04:05", "15:04:05.999999999", "15:04", "150405"}
	zones := []string{"Z07:00", "Z0700", "Z07"}

	var ls []string
	for _, d := range dates {
		for _, s := range seps {
			for _, c := range clocks {
				for _, z := range zones {
					ls = append(ls, d+s+c+z)
				}
			}
		}
	}
	return ls
}

// ParseTime parses a time in RFC3339 or a looser variant of it, like "2021-01-02 15:04Z" or "20210102T150405+0900".
// A date without clock, like "2021-01-02", means the midnight of the date in UTC.
func ParseTime(s string) (time.Time, error) {
	x := strings.ToUpper(strings.TrimSpace(s))

	for _, l := range timeLayouts {
		if t, err := time.Parse(l, x); err == nil {
			return t, nil
		}
	}

	for _, l := range []string{"2006-01-02", "20060102"} {
		if t, err := time.Parse(l, x); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}
