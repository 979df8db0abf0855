package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/visitorcount/countercheck/internal/probe"
	"github.com/visitorcount/countercheck/internal/store"
	api "github.com/visitorcount/countercheck/lib-countercheck"
)

func (cmd *CheckCommand) RunOneshot(ctx context.Context, s *store.Store) (exitCode int) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)
	defer stop()

	p := probe.New(cmd.Config.Target)
	makeJob(ctx, s, p).Run()

	for _, h := range s.ProbeHistory() {
		if h.Status != api.StatusHealthy {
			return 1
		}
	}

	return 0
}
