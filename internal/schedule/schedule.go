// Package schedule decides when the counter endpoint is checked in watch mode.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Now is the clock that "@after" counts from.
var Now = time.Now

var ErrInvalidSchedule = errors.New("invalid schedule")

var (
	cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.DowOptional)

	cronAliases = map[string]string{
		"@yearly":   "0 0 1 1 ?",
		"@annually": "0 0 1 1 ?",
		"@monthly":  "0 0 1 * ?",
		"@weekly":   "0 0 * * 0",
		"@daily":    "0 0 * * ?",
		"@hourly":   "0 * * * ?",
	}
)

// Schedule is when the check runs. It is one of an interval, a cron spec, or a single run.
//
// Schedule implements cron.Schedule. Next returns the zero time when no more run is left, and cron never runs it again.
type Schedule struct {
	spec    string
	onStart bool

	interval time.Duration
	cron     cron.Schedule
	once     time.Time
}

// Parse reads a schedule spec.
//
//	5m, 1h30m       every interval, and once right after start
//	*/10 * * * *    when the cron spec matches; the day-of-week field may be omitted
//	@daily          an alias of a cron spec, like @hourly or @weekly
//	@after 10m      only once, 10 minutes after Parse was called
//	@reboot         only once, right after start
func Parse(spec string) (Schedule, error) {
	spec = strings.TrimSpace(spec)

	if spec == "@reboot" {
		return Schedule{spec: spec, onStart: true}, nil
	}

	if rest, ok := strings.CutPrefix(spec, "@after "); ok {
		delay, err := time.ParseDuration(strings.TrimSpace(rest))
		switch {
		case err != nil, delay < 0:
			return Schedule{}, fmt.Errorf("%w: %q", ErrInvalidSchedule, spec)
		case delay == 0:
			return Schedule{spec: "@reboot", onStart: true}, nil
		}
		return Schedule{spec: "@after " + delay.String(), once: Now().Add(delay)}, nil
	}

	if d, err := time.ParseDuration(spec); err == nil {
		if d <= 0 {
			return Schedule{}, fmt.Errorf("%w: interval must be positive: %q", ErrInvalidSchedule, spec)
		}
		return Schedule{spec: d.String(), onStart: true, interval: d}, nil
	}

	if alias, ok := cronAliases[spec]; ok {
		spec = alias
	} else if fields := strings.Fields(spec); len(fields) == 4 {
		spec = strings.Join(append(fields, "?"), " ")
	} else {
		spec = strings.Join(fields, " ")
	}

	c, err := cronParser.Parse(spec)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: %s", ErrInvalidSchedule, err)
	}
	return Schedule{spec: spec, cron: c}, nil
}

// Next returns the time of the next run after t.
func (s Schedule) Next(t time.Time) time.Time {
	switch {
	case s.interval > 0:
		return t.Add(s.interval)
	case s.cron != nil:
		return s.cron.Next(t)
	case !s.once.IsZero() && t.Before(s.once):
		return s.once
	default:
		return time.Time{}
	}
}

// RunOnStart reports whether the check runs right after the watcher started, before the first Next.
func (s Schedule) RunOnStart() bool {
	return s.onStart
}

// String returns the normalized spec, that Parse accepts again.
func (s Schedule) String() string {
	return s.spec
}
