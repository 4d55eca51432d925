package badges

import "errors"

var (
	// ErrNotFound is returned when a badge or ledger entry does not exist.
	ErrNotFound = errors.New("badge not found")

	// ErrUnlockRuleParse marks a stored unlock criterion that cannot be
	// understood. Such badges are skipped during evaluation.
	ErrUnlockRuleParse = errors.New("malformed unlock rule")

	// ErrStorageUnavailable wraps any persistence failure while evaluating.
	// Callers treat it as "no badge this time".
	ErrStorageUnavailable = errors.New("badge storage unavailable")
)
