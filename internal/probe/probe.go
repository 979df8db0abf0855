package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/visitorcount/countercheck/internal/checkerr"
	"github.com/visitorcount/countercheck/internal/counter"
	api "github.com/visitorcount/countercheck/lib-countercheck"
)

type Reporter interface {
	// Report reports a Record.
	//
	// `source` in argument is the probe's URL.
	Report(source *url.URL, r api.Record)
}

type Prober interface {
	Target() *url.URL
	Probe(ctx context.Context, r Reporter)
}

// CounterProbe checks a counter endpoint and reports the result as a Record.
type CounterProbe struct {
	endpoint counter.Endpoint
}

func New(e counter.Endpoint) CounterProbe {
	return CounterProbe{endpoint: e}
}

func (p CounterProbe) Target() *url.URL {
	return p.endpoint.URL
}

func (p CounterProbe) Probe(ctx context.Context, r Reporter) {
	st := time.Now()
	resp, err := p.endpoint.Check(ctx)
	d := time.Since(st)

	rec := responseToRecord(resp, err)
	rec.Time = st
	rec.Latency = d
	rec.Target = p.endpoint.URL
	rec.Extra["check_id"] = uuid.New().String()

	r.Report(p.endpoint.URL, timeoutOr(ctx, rec))
}

func responseToRecord(resp counter.Response, err error) api.Record {
	rec := api.Record{
		Status: api.StatusFailure,
		Extra:  map[string]interface{}{},
	}

	if resp.StatusCode != 0 {
		rec.Extra["http_status"] = resp.StatusCode
		rec.Extra["proto"] = resp.Proto
		rec.Extra["length"] = resp.Length
	}

	var assertion checkerr.AssertionError
	dnsErr := &net.DNSError{}
	opErr := &net.OpError{}

	switch {
	case err == nil:
		rec.Status = api.StatusHealthy
		rec.Message = "count=" + resp.Count
		rec.Extra["count"] = resp.Count
		rec.Extra["field_type"] = counter.TypeName(resp.Field)
	case errors.As(err, &assertion):
		rec.Message = fmt.Sprintf("%s: expected %s but got %s", assertion.Subject, assertion.Expected, assertion.Actual)
		if errors.Is(err, counter.ErrFieldType) {
			rec.Extra["field_type"] = assertion.Actual
		}
	case errors.Is(err, context.Canceled):
		rec.Status = api.StatusAborted
		rec.Message = "probe aborted"
	case errors.Is(err, context.DeadlineExceeded):
		rec.Message = "probe timed out"
	case errors.As(err, &dnsErr):
		rec.Status = api.StatusUnknown
		rec.Message = dnsErrorToMessage(dnsErr)
	case errors.As(err, &opErr) && opErr.Op == "dial" && opErr.Addr != nil:
		rec.Message = dialErrorToMessage(opErr)
	default:
		rec.Message = err.Error()
	}

	return rec
}

func dnsErrorToMessage(err *net.DNSError) string {
	msg := err.Error()
	if err.IsNotFound {
		msg = "lookup " + err.Name + ": not found"
	}
	if err.Server != "" {
		msg += " on " + err.Server
	}
	return msg
}

// dialErrorToMessage reports the address and the reason from the OS, like "127.0.0.1:80: connection refused".
func dialErrorToMessage(err *net.OpError) string {
	reason := err.Err
	var sysErr *os.SyscallError
	if errors.As(reason, &sysErr) {
		reason = sysErr.Err
	}
	return fmt.Sprintf("%s: %s", err.Addr, reason)
}

func timeoutOr(ctx context.Context, r api.Record) api.Record {
	switch ctx.Err() {
	case context.Canceled:
		r.Status = api.StatusAborted
		r.Message = "probe aborted"
	case context.DeadlineExceeded:
		r.Status = api.StatusFailure
		r.Message = "probe timed out"
	default:
	}
	return r
}
