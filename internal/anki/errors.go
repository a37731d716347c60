package anki

import "errors"

// Sentinel errors tagging the failure class of an encode call. Callers
// classify with errors.Is: validation failures are caller mistakes and map to
// a rejected request, the other two are internal failures.
var (
	// ErrValidation marks bad input: empty title, empty question or answer,
	// or input reduced to nothing by separator-byte stripping.
	ErrValidation = errors.New("validation error")

	// ErrEncoding marks a failure to materialize the collection database,
	// including a zero-length final package.
	ErrEncoding = errors.New("encoding error")

	// ErrPackaging marks a failure to assemble the zip container.
	ErrPackaging = errors.New("packaging error")
)
