package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"time"
)

// RunDummyCounterServer starts a counter API that answers in various shapes.
//
//	/update_count    adds one to the total count, and responds {"N":"<count>"} as a visitor counter does
//	/numeric         responds {"N":42}
//	/null            responds {"N":null}
//	/missing         responds {"count":"42"}
//	/nested          responds {"Item":{"TotalCount":{"N":"7"}}}
//	/array           responds [1,2,3]
//	/not-json        responds plain text
//	/utf16           responds {"N":"5"} in UTF-16 with BOM
//	/shift_jis       responds {"N":"一"} in Shift_JIS
//	/unknown-charset responds {"N":"8"} with a charset nobody knows
//	/huge            responds {"N":"9"} padded to over 1MiB
//	/error           responds 500 with a valid body
//	/slow            responds after 100ms
//	/redirect/ok     redirects to /update_count
//	/redirect/loop   redirects to itself forever
func RunDummyCounterServer() *httptest.Server {
	var count atomic.Int64

	mux := http.NewServeMux()

	jsonHandler := func(status int, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			fmt.Fprint(w, body)
		}
	}

	mux.HandleFunc("/update_count", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"N":"%d"}`, count.Add(1))
	})
	mux.HandleFunc("/numeric", jsonHandler(http.StatusOK, `{"N":42}`))
	mux.HandleFunc("/null", jsonHandler(http.StatusOK, `{"N":null}`))
	mux.HandleFunc("/missing", jsonHandler(http.StatusOK, `{"count":"42"}`))
	mux.HandleFunc("/nested", jsonHandler(http.StatusOK, `{"Item":{"TotalCount":{"N":"7"}}}`))
	mux.HandleFunc("/array", jsonHandler(http.StatusOK, `[1,2,3]`))
	mux.HandleFunc("/not-json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello world")
	})
	mux.HandleFunc("/utf16", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("\xFF\xFE{\x00\"\x00N\x00\"\x00:\x00\"\x005\x00\"\x00}\x00"))
	})
	mux.HandleFunc("/shift_jis", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=Shift_JIS")
		w.Write([]byte("{\"N\":\"\x88\xea\"}"))
	})
	mux.HandleFunc("/unknown-charset", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=x-no-such-charset")
		fmt.Fprint(w, `{"N":"8"}`)
	})
	mux.HandleFunc("/huge", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"N":"9","padding":"%s"}`, strings.Repeat("x", 2*1024*1024))
	})
	mux.HandleFunc("/error", jsonHandler(http.StatusInternalServerError, `{"N":"42"}`))
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(100 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		fmt.Fprint(w, `{"N":"1"}`)
	})
	mux.HandleFunc("/redirect/ok", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/update_count", http.StatusFound)
	})
	mux.HandleFunc("/redirect/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/redirect/loop", http.StatusFound)
	})

	return httptest.NewServer(mux)
}
