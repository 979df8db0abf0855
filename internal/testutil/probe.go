package testutil

import (
	"testing"
	"time"

	"github.com/visitorcount/countercheck/internal/counter"
)

// NewEndpoint makes a counter.Endpoint with a short timeout for tests.
func NewEndpoint(t testing.TB, rawURL, field string) counter.Endpoint {
	t.Helper()

	e, err := counter.NewEndpoint(rawURL, field, 5*time.Second)
	if err != nil {
		t.Fatalf("failed to create endpoint: %s", err)
	}

	return e
}
