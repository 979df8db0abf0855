package probe

import (
	"errors"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/visitorcount/countercheck/internal/checkerr"
	"github.com/visitorcount/countercheck/internal/counter"
	api "github.com/visitorcount/countercheck/lib-countercheck"
)

func TestResponseToRecord_dns(t *testing.T) {
	err := checkerr.Wrap(counter.ErrRequest, &net.DNSError{
		Err:        "no such host",
		Name:       "no-such-host.invalid",
		IsNotFound: true,
	}, "")

	rec := responseToRecord(counter.Response{}, err)

	if rec.Status != api.StatusUnknown {
		t.Errorf("unexpected status: %s", rec.Status)
	}
	if rec.Message != "lookup no-such-host.invalid: not found" {
		t.Errorf("unexpected message: %s", rec.Message)
	}
}

func TestDNSErrorToMessage(t *testing.T) {
	tests := []struct {
		Err  *net.DNSError
		Want string
	}{
		{&net.DNSError{Err: "no such host", Name: "example.com", IsNotFound: true}, "lookup example.com: not found"},
		{&net.DNSError{Err: "no such host", Name: "example.com", Server: "8.8.8.8:53", IsNotFound: true}, "lookup example.com: not found on 8.8.8.8:53"},
		{&net.DNSError{Err: "server misbehaving", Name: "example.com"}, "lookup example.com: server misbehaving"},
	}

	for _, tt := range tests {
		if got := dnsErrorToMessage(tt.Err); got != tt.Want {
			t.Errorf("expected %q but got %q", tt.Want, got)
		}
	}
}

func TestDialErrorToMessage(t *testing.T) {
	addr := &net.TCPAddr{IP: net.IPv4(192, 0, 2, 1), Port: 80}

	tests := []struct {
		Err  error
		Want string
	}{
		{&os.SyscallError{Syscall: "connect", Err: syscall.ECONNREFUSED}, "192.0.2.1:80: connection refused"},
		{&os.SyscallError{Syscall: "connect", Err: syscall.EHOSTUNREACH}, "192.0.2.1:80: no route to host"},
		{&os.SyscallError{Syscall: "connect", Err: syscall.ENETUNREACH}, "192.0.2.1:80: network is unreachable"},
		{errors.New("i/o timeout"), "192.0.2.1:80: i/o timeout"},
	}

	for _, tt := range tests {
		err := &net.OpError{Op: "dial", Net: "tcp", Addr: addr, Err: tt.Err}
		if got := dialErrorToMessage(err); got != tt.Want {
			t.Errorf("expected %q but got %q", tt.Want, got)
		}
	}
}

func TestResponseToRecord_unreachableHost(t *testing.T) {
	err := checkerr.Wrap(counter.ErrRequest, &net.OpError{
		Op:   "dial",
		Net:  "tcp",
		Addr: &net.TCPAddr{IP: net.IPv4(192, 0, 2, 1), Port: 443},
		Err:  &os.SyscallError{Syscall: "connect", Err: syscall.EHOSTUNREACH},
	}, "")

	rec := responseToRecord(counter.Response{}, err)

	if rec.Status != api.StatusFailure {
		t.Errorf("unexpected status: %s", rec.Status)
	}
	if rec.Message != "192.0.2.1:443: no route to host" {
		t.Errorf("unexpected message: %s", rec.Message)
	}
}
