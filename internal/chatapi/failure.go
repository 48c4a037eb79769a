package chatapi

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by Failure.Is.
var (
	ErrTransport = errors.New("chat backend unreachable")
	ErrStatus    = errors.New("chat backend returned non-success status")
	ErrMalformed = errors.New("chat backend returned malformed response")
)

// FailureKind classifies a failed exchange.
type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureStatus    FailureKind = "status"
	FailureMalformed FailureKind = "malformed"
)

// Failure describes why an exchange with the backend did not produce a
// usable response. All kinds are retryable from the caller's point of view.
type Failure struct {
	Kind       FailureKind
	StatusCode int // set for FailureStatus
	Err        error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case FailureStatus:
		return fmt.Sprintf("chat API error: status %d: %v", f.StatusCode, f.Err)
	case FailureMalformed:
		return fmt.Sprintf("chat API error: malformed response: %v", f.Err)
	default:
		return fmt.Sprintf("chat API error: %v", f.Err)
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Is lets errors.Is match a Failure against the package sentinels.
func (f *Failure) Is(target error) bool {
	switch target {
	case ErrTransport:
		return f.Kind == FailureTransport
	case ErrStatus:
		return f.Kind == FailureStatus
	case ErrMalformed:
		return f.Kind == FailureMalformed
	}
	return false
}

func transportFailure(err error) *Failure {
	return &Failure{Kind: FailureTransport, Err: err}
}

func malformed(format string, args ...any) *Failure {
	return &Failure{Kind: FailureMalformed, Err: fmt.Errorf(format, args...)}
}
