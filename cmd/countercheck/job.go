package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/visitorcount/countercheck/internal/probe"
	api "github.com/visitorcount/countercheck/lib-countercheck"
)

// makeJob makes a cron.Job that runs p and reports to r.
// A panic in the probe is reported as an UNKNOWN record instead of stopping the scheduler.
func makeJob(ctx context.Context, r probe.Reporter, p probe.Prober) cron.Job {
	return cron.FuncJob(func() {
		defer func() {
			if err := recover(); err != nil {
				r.Report(p.Target(), api.Record{
					Time:    time.Now(),
					Status:  api.StatusUnknown,
					Target:  p.Target(),
					Message: fmt.Sprintf("panic: %s", err),
				})
			}
		}()

		p.Probe(ctx, r)
	})
}
