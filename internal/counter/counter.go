// Package counter implements the check of a counter API endpoint.
//
// A check sends a GET request to the endpoint, and asserts two things about the response:
// the status code is 200, and the count field (".N" by default) is a JSON string.
package counter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/itchyny/gojq"
	"github.com/visitorcount/countercheck/internal/checkerr"
	"github.com/visitorcount/countercheck/internal/textdecode"
)

var (
	UserAgent = "countercheck"
)

const (
	DefaultField   = ".N"
	DefaultTimeout = 10 * time.Minute

	REDIRECT_MAX    = 10
	BODY_SIZE_MAX   = 1024 * 1024
	EXPECTED_STATUS = http.StatusOK
)

var (
	// ErrRequest means the request did not get any response, like DNS failure, connection refused, TLS error, or timeout.
	ErrRequest = errors.New("request error")

	// ErrStatus means the endpoint responded, but the status code was not 200.
	ErrStatus = errors.New("assertion error")

	// ErrFieldType means the endpoint responded 200, but the count field was missing or not a string.
	ErrFieldType = errors.New("assertion error")

	ErrInvalidEndpoint = errors.New("invalid endpoint")

	ErrRedirectLoopDetected = errors.New("redirect loop detected")

	httpClient = &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DisableKeepAlives:     true,
			ResponseHeaderTimeout: DefaultTimeout,
		},
		CheckRedirect: checkRedirect,
	}
)

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) > REDIRECT_MAX {
		return ErrRedirectLoopDetected
	}
	return nil
}

// Endpoint is a counter API to check.
type Endpoint struct {
	URL *url.URL

	// Field is a jq path to the count in the response body.
	Field string

	// Timeout is the limit of the whole check, including reading the body.
	Timeout time.Duration

	query *gojq.Code
}

// NewEndpoint parses and validates an Endpoint.
//
// Empty field means DefaultField, and zero timeout means DefaultTimeout.
func NewEndpoint(rawURL, field string, timeout time.Duration) (Endpoint, error) {
	errs := &checkerr.Problems{Kind: ErrInvalidEndpoint}

	if field == "" {
		field = DefaultField
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	e := Endpoint{
		Field:   field,
		Timeout: timeout,
	}

	if rawURL == "" {
		errs.Addf("endpoint URL is required")
	} else if u, err := url.Parse(rawURL); err != nil {
		errs.Add(err)
	} else {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			u.Scheme = strings.ToLower(u.Scheme)
		default:
			errs.Addf("%s: only http and https URLs are supported", rawURL)
		}
		if u.Hostname() == "" {
			errs.Addf("%s: missing host name", rawURL)
		}
		u.Host = strings.ToLower(u.Host)
		e.URL = u
	}

	if q, err := gojq.Parse(field); err != nil {
		errs.Addf("%s: invalid field query: %s", field, err)
	} else if c, err := gojq.Compile(q); err != nil {
		errs.Addf("%s: invalid field query: %s", field, err)
	} else {
		e.query = c
	}

	if timeout < 0 {
		errs.Addf("%s: timeout must be positive", timeout)
	}

	if err := errs.Err(); err != nil {
		return Endpoint{}, err
	}
	return e, nil
}

// MustEndpoint is the same as NewEndpoint but panics if failed.
func MustEndpoint(rawURL, field string, timeout time.Duration) Endpoint {
	e, err := NewEndpoint(rawURL, field, timeout)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the endpoint URL with masked password.
func (e Endpoint) String() string {
	if e.URL == nil {
		return ""
	}
	return e.URL.Redacted()
}

// Response is the captured response of a check.
type Response struct {
	StatusCode int
	Proto      string

	// Length is the size of the body in bytes.
	Length int64

	// Body is the decoded JSON body.
	Body any

	// Field is the value that the Endpoint.Field selected.
	Field any

	// Count is the value of the count field. It is set only when the check passed.
	Count string
}

// Check sends a GET request to the endpoint and asserts the response.
//
// The returned Response has whatever was captured before the failure even if err is not nil.
// The error is ErrRequest, ErrStatus, or ErrFieldType, and can be tested via errors.Is.
// Status and type mismatches are reported as checkerr.AssertionError.
func (e Endpoint) Check(ctx context.Context) (Response, error) {
	if e.query == nil {
		return Response{}, checkerr.Wrap(ErrInvalidEndpoint, nil, "endpoint is not initialized")
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL.String(), nil)
	if err != nil {
		return Response{}, checkerr.Wrap(ErrInvalidEndpoint, err, "")
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return Response{}, checkerr.Wrap(ErrRequest, err, "")
	}
	defer resp.Body.Close()

	r := Response{
		StatusCode: resp.StatusCode,
		Proto:      resp.Proto,
	}

	if resp.StatusCode != EXPECTED_STATUS {
		// The body of an unexpected status is only measured. A broken body must not hide the status.
		n, _ := io.Copy(io.Discard, io.LimitReader(resp.Body, BODY_SIZE_MAX))
		r.Length = n
		return r, checkerr.Assertf(ErrStatus, "status", fmt.Sprint(EXPECTED_STATUS), "%d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, BODY_SIZE_MAX+1))
	r.Length = int64(len(body))
	if err != nil {
		return r, checkerr.Wrap(ErrRequest, err, "failed to read response body")
	}
	if len(body) > BODY_SIZE_MAX {
		return r, checkerr.Assertf(ErrFieldType, e.Field, "string", "too large body (over %d bytes)", BODY_SIZE_MAX)
	}

	body, err = textdecode.Body(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return r, checkerr.Assertf(ErrFieldType, e.Field, "string", "invalid JSON")
	}

	if err := json.Unmarshal(body, &r.Body); err != nil {
		return r, checkerr.Assertf(ErrFieldType, e.Field, "string", "invalid JSON")
	}

	r.Field, err = e.selectField(ctx, r.Body)
	if err != nil {
		return r, checkerr.Assertf(ErrFieldType, e.Field, "string", "error (%s)", err)
	}

	s, ok := r.Field.(string)
	if !ok {
		return r, checkerr.Assertf(ErrFieldType, e.Field, "string", "%s", TypeName(r.Field))
	}
	r.Count = s

	return r, nil
}

// selectField returns the first value of the field query. It returns nil if the query yields nothing.
func (e Endpoint) selectField(ctx context.Context, body any) (any, error) {
	iter := e.query.RunWithContext(ctx, body)

	v, ok := iter.Next()
	if !ok {
		return nil, nil
	}
	if err, ok := v.(error); ok {
		return nil, err
	}
	return v, nil
}

// TypeName returns the JSON type name of a decoded value.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
