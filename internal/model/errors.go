package model

import "errors"

// Sentinel errors shared across packages. Callers classify with errors.Is;
// producers wrap them with context via fmt.Errorf("...: %w", ...).
var (
	// ErrEmptyRequest marks request text that is empty after trimming.
	// Rejected before any model call.
	ErrEmptyRequest = errors.New("request text is empty")

	// ErrModelUnavailable marks a transient language-model failure
	// (timeout, network error, rate limit, server error). It is distinct
	// from an interpretation failure, which degrades to an unknown Intent
	// instead of an error.
	ErrModelUnavailable = errors.New("language model unavailable")

	// ErrDuplicateItem is returned by the store when an insert would
	// violate per-owner normalized-content uniqueness.
	ErrDuplicateItem = errors.New("item already exists")
)
