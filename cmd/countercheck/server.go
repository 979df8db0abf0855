package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/visitorcount/countercheck/internal/endpoint"
	"github.com/visitorcount/countercheck/internal/meta"
	"github.com/visitorcount/countercheck/internal/probe"
	"github.com/visitorcount/countercheck/internal/store"
	api "github.com/visitorcount/countercheck/lib-countercheck"
)

// serverHooks set up the Store before the server starts.
var serverHooks = []func(*store.Store){
	reportIncidents,
}

// reportIncidents logs a "countercheck:incident" line when an incident of the endpoint begins, and when it is resolved.
func reportIncidents(s *store.Store) {
	u := &url.URL{Scheme: store.InternalScheme, Opaque: "incident"}

	s.OnStatusChanged = append(s.OnStatusChanged, func(r api.Record) {
		msg := "incident began: " + r.Message
		if r.Status == api.StatusHealthy {
			msg = "incident resolved: " + r.Message
		}

		s.Report(u, api.Record{
			Time:    r.Time,
			Status:  r.Status,
			Target:  u,
			Message: msg,
			Extra: map[string]interface{}{
				"endpoint":  r.Target.Redacted(),
				"incidents": s.IncidentCount(),
			},
		})
	})
}

func (cmd *CheckCommand) reportStartLog(s *store.Store, listen net.Addr) {
	u := &url.URL{Scheme: store.InternalScheme, Opaque: "server"}

	extra := map[string]interface{}{
		"url":      "http://" + listen.String(),
		"schedule": cmd.Config.Schedule.String(),
		"endpoint": cmd.Config.Target.String(),
		"version":  meta.VersionString(),
	}
	if s.Path() != "" {
		extra["log_file"] = s.Path()
	}

	s.Report(u, api.Record{
		Time:    time.Now(),
		Status:  api.StatusHealthy,
		Target:  u,
		Message: "start countercheck server",
		Extra:   extra,
	})
}

func (cmd *CheckCommand) RunServer(ctx context.Context, s *store.Store) (exitCode int) {
	for _, hook := range serverHooks {
		hook(s)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.Restore(); err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: failed to read log file: %s\n", err)
		return 1
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", cmd.Config.Port))
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: failed to listen: %s\n", err)
		return 1
	}

	cmd.StartedAt = time.Now()
	cmd.reportStartLog(s, ln.Addr())

	scheduler := cron.New()
	job := makeJob(ctx, s, probe.New(cmd.Config.Target))
	scheduler.Schedule(cmd.Config.Schedule, job)
	scheduler.Start()

	var firstCheck sync.WaitGroup
	if cmd.Config.Schedule.RunOnStart() {
		firstCheck.Add(1)
		go func() {
			defer firstCheck.Done()
			job.Run()
		}()
	}

	srv := &http.Server{
		Handler:           endpoint.New(s),
		ReadHeaderTimeout: 10 * time.Second,
	}
	served := make(chan error, 1)
	go func() {
		served <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		if err := srv.Shutdown(context.Background()); err != nil {
			s.ReportInternalError("endpoint", err.Error())
		}
		<-served
	case err := <-served:
		s.ReportInternalError("endpoint", err.Error())
		exitCode = 1
	}

	// Checks in progress see the cancel and report ABORTED before the Store closes.
	cancel()
	<-scheduler.Stop().Done()
	firstCheck.Wait()

	return exitCode
}
