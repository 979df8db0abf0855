package checkerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/visitorcount/countercheck/internal/checkerr"
)

func TestProblems(t *testing.T) {
	errConfig := errors.New("invalid configuration")
	errEndpoint := errors.New("invalid endpoint")
	errPort := errors.New("bad port")

	var inner checkerr.Problems
	inner.Kind = errEndpoint
	inner.Addf("endpoint URL is required")

	p := checkerr.Problems{Kind: errConfig}
	p.Add(nil)
	p.Add(errPort)
	p.Add(inner.Err())

	err := p.Err()

	if !errors.Is(err, errConfig) {
		t.Errorf("should match the kind")
	}
	if !errors.Is(err, errPort) {
		t.Errorf("should match a problem")
	}
	if errors.Is(err, errEndpoint) {
		t.Errorf("the kind of a merged list should not remain")
	}

	var l checkerr.ProblemList
	if !errors.As(err, &l) {
		t.Fatalf("failed to get ProblemList via errors.As")
	}
	if len(l.Problems) != 2 {
		t.Errorf("expected 2 problems but got %d: %v", len(l.Problems), l.Problems)
	}
}

func ExampleProblems() {
	p := checkerr.Problems{Kind: errors.New("invalid configuration")}

	fmt.Println(p.Err())

	p.Add(errors.New("endpoint is required"))
	p.Addf("%s is not a valid timeout", "-1s")

	fmt.Println(p.Err())

	// OUTPUT:
	// <nil>
	// invalid configuration:
	//   endpoint is required
	//   -1s is not a valid timeout
}
