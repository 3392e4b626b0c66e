package service

import "errors"

// Pipeline error taxonomy. Mandatory-stage failures (embedding, generation)
// propagate to the boundary; best-effort stages (cache lookup, log writing)
// swallow their errors and degrade.
var (
	// ErrEmptyInput rejects blank questions before any external call.
	ErrEmptyInput = errors.New("question is empty")

	// ErrEmbeddingUnavailable means the embedding provider failed; the
	// request cannot proceed because every later stage needs the vector.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrGenerationUnavailable means the generation provider failed.
	ErrGenerationUnavailable = errors.New("generation provider unavailable")

	// ErrQuotaExceeded is the rate-limit/quota flavor of generation failure,
	// kept distinct so the boundary can show a "system busy" message instead
	// of a generic error.
	ErrQuotaExceeded = errors.New("generation quota exceeded")

	// ErrRegulationNotFound is returned by the admin path for unknown IDs.
	ErrRegulationNotFound = errors.New("regulation not found")
)
