package domain

import "errors"

// FailureKind classifies a failure from the remote API or the state store.
type FailureKind int

const (
	// FailureTransient is a one-off unit failure (e.g. a deleted channel).
	// The run logs it and moves on to the next unit; the unit is not
	// retried within the same run.
	FailureTransient FailureKind = iota

	// FailureQuota is account-wide quota exhaustion. The run must stop
	// immediately without advancing any checkpoint past a confirmed unit.
	FailureQuota

	// FailureFatal is an unrecoverable precondition or infrastructure
	// failure. The run aborts without touching any checkpoint.
	FailureFatal
)

// String returns the string representation.
func (k FailureKind) String() string {
	switch k {
	case FailureTransient:
		return "transient"
	case FailureQuota:
		return "quota"
	case FailureFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ClassifyFailure assigns a failure kind to an error. Connectors wrap raw
// API errors into domain sentinels at their boundary, so classification here
// is a matter of errors.Is rather than message inspection.
func ClassifyFailure(err error) FailureKind {
	switch {
	case errors.Is(err, ErrQuotaExhausted):
		return FailureQuota
	case errors.Is(err, ErrMirrorNotConfigured),
		errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, ErrAuthRequired):
		return FailureFatal
	default:
		return FailureTransient
	}
}
