package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrQuotaExhausted indicates the remote account's daily API quota is
	// depleted. Quota exhaustion is account-wide and self-heals only after
	// the provider's reset window; the correct response is to freeze all
	// checkpoints and yield until a later scheduled run.
	ErrQuotaExhausted = errors.New("remote API quota exhausted")

	// ErrMirrorNotConfigured indicates no mirror spreadsheet has been set.
	// This is a setup precondition violation and is fatal for the run.
	ErrMirrorNotConfigured = errors.New("mirror spreadsheet not configured")

	// ErrStoreUnavailable indicates the durable state store failed.
	// Fatal for the run; the next scheduled tick supplies the only retry.
	ErrStoreUnavailable = errors.New("state store unavailable")

	// ErrAuthRequired indicates the connector requires authentication but
	// none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrSyncInProgress indicates a sync job is already running.
	ErrSyncInProgress = errors.New("sync in progress")
)
