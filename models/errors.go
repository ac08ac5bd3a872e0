package models

import (
	"github.com/cockroachdb/errors"
)

// Base errors, shared across the whole module.
var (
	BadParameterError = errors.New("bad parameter")

	NotFoundError = errors.New("not found")

	ConflictError = errors.New("duplicate value")
)

// Screening related errors
var (
	// ErrScreeningUnavailable is returned when a screening could not be
	// computed at all: the watchlist store is unreachable and no further
	// fallback exists. Callers must treat it as "unknown", never as CLEAR.
	ErrScreeningUnavailable = errors.New("screening unavailable")

	// ErrTierUnavailable is returned by the tier-1 guard once retries are
	// exhausted or the circuit breaker is open. It is consumed internally by
	// the orchestrator's fallback path.
	ErrTierUnavailable = errors.New("screening tier unavailable")
)

// Override workflow errors
var (
	ErrOverrideNotPending = errors.Wrap(ConflictError, "screening override is not in pending status")

	ErrOverrideNotFound = errors.Wrap(NotFoundError, "screening override not found")
)

// IsTransient reports whether err is worth retrying against the same
// dependency. Unrecoverable errors (bad request, unknown entity...) must not
// consume retry budget nor trip the circuit breaker open for longer than
// needed.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, BadParameterError) || errors.Is(err, NotFoundError) {
		return false
	}
	return true
}
