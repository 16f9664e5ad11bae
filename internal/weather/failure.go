package weather

import "fmt"

// FailureKind classifies an upstream problem. Network, rejected and empty
// failures on the primary path all trigger the fallback provider; partial
// failures are absorbed at the slice they occurred in.
type FailureKind string

const (
	FailureNetwork  FailureKind = "network"
	FailureRejected FailureKind = "rejected"
	FailureEmpty    FailureKind = "empty"
	FailurePartial  FailureKind = "partial"
)

// Failure is the typed error half of a provider call result. A nil *Failure
// means success; the orchestrator consumes the two branches at a single
// decision point instead of scattered nil-checks.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NetworkFailure wraps a timeout or connection error.
func NetworkFailure(err error) *Failure {
	return &Failure{Kind: FailureNetwork, Err: err}
}

// RejectedFailure wraps a non-2xx status or a success=false envelope.
func RejectedFailure(err error) *Failure {
	return &Failure{Kind: FailureRejected, Err: err}
}

// EmptyFailure marks a success envelope that carried no usable rows.
func EmptyFailure(detail string) *Failure {
	return &Failure{Kind: FailureEmpty, Err: fmt.Errorf("%s", detail)}
}
