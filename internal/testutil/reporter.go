package testutil

import (
	"net/url"
	"sync"

	api "github.com/visitorcount/countercheck/lib-countercheck"
)

// DummyReporter keeps every reported record in memory.
type DummyReporter struct {
	sync.Mutex

	Records []api.Record
	Sources []*url.URL
}

func (r *DummyReporter) Report(source *url.URL, rec api.Record) {
	r.Lock()
	defer r.Unlock()

	r.Records = append(r.Records, rec)
	r.Sources = append(r.Sources, source)
}
