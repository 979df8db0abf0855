//go:build debug

package main

import (
	"net/http"
	_ "net/http/pprof"
	"net/url"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/visitorcount/countercheck/internal/store"
	api "github.com/visitorcount/countercheck/lib-countercheck"
)

func init() {
	serverHooks = append(serverHooks, startDebugLogger)
}

// startDebugLogger logs the state of the watcher every 5 seconds as "countercheck:debug", and serves pprof on localhost:6060.
func startDebugLogger(s *store.Store) {
	started := time.Now()
	u := &url.URL{Scheme: store.InternalScheme, Opaque: "debug"}

	say := func(message string, extra map[string]interface{}) {
		s.Report(u, api.Record{
			Status:  api.StatusHealthy,
			Target:  u,
			Message: message,
			Extra:   extra,
		})
	}

	say("start in debug mode", map[string]interface{}{
		"goversion": runtime.Version(),
		"platform":  runtime.GOOS + "/" + runtime.GOARCH,
	})

	go func() {
		for range time.Tick(5 * time.Second) {
			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)

			say("watcher status", map[string]interface{}{
				"goroutines":        runtime.NumGoroutine(),
				"heap":              humanize.IBytes(mem.HeapAlloc),
				"gc":                mem.NumGC,
				"uptime":            time.Since(started).Round(time.Second).String(),
				"incidents":         s.IncidentCount(),
				"current_incidents": len(s.CurrentIncidents()),
			})
		}
	}()

	go func() {
		err := http.ListenAndServe("localhost:6060", nil)
		say("pprof server stopped", map[string]interface{}{
			"error": err.Error(),
		})
	}()
}
