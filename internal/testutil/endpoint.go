package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/visitorcount/countercheck/internal/endpoint"
	"github.com/visitorcount/countercheck/internal/store"
)

// StartTestServer starts the status pages with a Store that has DummyLog.
func StartTestServer(t testing.TB) (*httptest.Server, *store.Store) {
	t.Helper()

	s := NewStoreWithLog(t)

	srv := httptest.NewServer(endpoint.New(s))
	t.Cleanup(srv.Close)

	return srv, s
}
