// Package endpoint serves the status of the watcher over HTTP.
package endpoint

import (
	"fmt"
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/go-chi/chi/v5"
)

func New(s Store) http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/status.txt", http.StatusFound)
	})

	r.Handle("/status", http.RedirectHandler("/status.txt", http.StatusMovedPermanently))
	r.Get("/status.txt", StatusTextEndpoint(s))
	r.Get("/status.json", StatusJSONEndpoint(s))

	r.Handle("/log", http.RedirectHandler("/log.json", http.StatusMovedPermanently))
	r.Get("/log.json", LogJSONEndpoint(s))
	r.Get("/log.csv", LogCSVEndpoint(s))
	r.Get("/log.ltsv", LogLTSVEndpoint(s))

	r.Get("/healthz", HealthzEndpoint(s))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintln(w, "404 page not found")
	})

	return gziphandler.GzipHandler(r)
}

func handleError(s Store, scope string, err error) {
	if err != nil {
		s.ReportInternalError("endpoint:"+scope, err.Error())
	}
}
