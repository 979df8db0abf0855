package testutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/visitorcount/countercheck/internal/store"
)

// DummyLog is a log of two checks of https://api.example.com/update_count, a success and a failure.
const DummyLog = `{"time":"2021-01-02T15:04:05Z","status":"HEALTHY","latency":123.000,"target":"https://api.example.com/update_count","message":"count=41","count":"41","http_status":200}
{"time":"2021-01-02T15:09:05Z","status":"FAILURE","latency":45.000,"target":"https://api.example.com/update_count","message":"status: expected 200 but got 502","http_status":502}
`

// NewStoreWithConsole creates a Store that writes to a log file in a temporary directory and w.
// The Store is closed at the end of the test.
func NewStoreWithConsole(t testing.TB, w io.Writer) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "countercheck.log"), w)
	if err != nil {
		t.Fatalf("failed to create store: %s", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func NewStore(t testing.TB) *store.Store {
	t.Helper()

	return NewStoreWithConsole(t, io.Discard)
}

// NewStoreWithLog creates a Store that restored DummyLog.
func NewStoreWithLog(t testing.TB) *store.Store {
	t.Helper()

	fpath := filepath.Join(t.TempDir(), "countercheck.log")

	if err := os.WriteFile(fpath, []byte(DummyLog), 0644); err != nil {
		t.Fatalf("failed to prepare test log file: %s", err)
	}

	s, err := store.New(fpath, io.Discard)
	if err != nil {
		t.Fatalf("failed to create store: %s", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	if err = s.Restore(); err != nil {
		t.Fatalf("failed to restore store: %s", err)
	}

	return s
}
