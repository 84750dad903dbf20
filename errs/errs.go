// Package errs defines the sentinel error kinds the core reports, per
// the error handling design: style-parse, reference-parse, locale-fetch,
// unknown-format, and invariant-violation. Call sites wrap these with
// fmt.Errorf("%w: ...") rather than constructing new, unrelated errors,
// so callers can use errors.Is to branch on kind.
package errs

import "errors"

var (
	// ErrStyleParse marks an invalid or unsupported style document.
	// Surfaced at construction (New, SetStyleText).
	ErrStyleParse = errors.New("style parse error")

	// ErrReferenceParse marks a malformed reference, as reported by the
	// external reference parser the core consumes but does not own.
	ErrReferenceParse = errors.New("reference parse error")

	// ErrLocaleFetch marks an I/O or invalid-XML failure fetching a
	// locale. Non-fatal: the caller demotes to the default locale.
	ErrLocaleFetch = errors.New("locale fetch error")

	// ErrUnknownFormat marks an output format name outside
	// {html, rtf, plain-text}. Surfaced at construction.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrInvariantViolation marks a fatal, state-preserving input error:
	// incompatible suppression flags on one cite, or an unknown locator
	// type. The current operation aborts; processor state is unchanged.
	ErrInvariantViolation = errors.New("invariant violation")
)
