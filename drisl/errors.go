package drisl

import (
	"errors"
	"fmt"
)

// Decode failure sentinels. Every parse failure wraps exactly one of
// these (match with errors.Is), usually inside a DecodeError carrying
// the input offset. Canonical-form violations are always fatal to the
// decode attempt: accepting non-canonical input would break the
// one-byte-sequence-per-value guarantee.
var (
	// ErrTruncated: fewer bytes available than the current construct
	// requires. Distinct from a clean end of input between values.
	ErrTruncated = errors.New("drisl: unexpected end of input")

	// ErrTrailingData: a single-value decode succeeded but bytes remain.
	ErrTrailingData = errors.New("drisl: trailing data after value")

	// ErrNonCanonicalInt: an integer or length argument was not encoded
	// in its minimal width.
	ErrNonCanonicalInt = errors.New("drisl: integer not minimally encoded")

	// ErrNonCanonicalFloat: a float was not an 8-byte binary64, or a NaN
	// carried a non-canonical bit pattern.
	ErrNonCanonicalFloat = errors.New("drisl: non-canonical float encoding")

	// ErrInvalidUTF8: a text string held bytes that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("drisl: invalid utf-8 in text string")

	// ErrUnsortedKeys: map keys not strictly ascending in canonical
	// byte order. Covers duplicates and disorder alike.
	ErrUnsortedKeys = errors.New("drisl: map keys not in canonical order")

	// ErrDepthExceeded: nesting beyond the configured maximum.
	ErrDepthExceeded = errors.New("drisl: nesting depth limit exceeded")

	// ErrUnknownTag: a tag, simple value, or reserved head outside the
	// DRISL subset.
	ErrUnknownTag = errors.New("drisl: tag or simple value outside drisl")

	// ErrIndefiniteLength: an indefinite-length head or a stray break
	// code. DRISL only permits definite lengths.
	ErrIndefiniteLength = errors.New("drisl: indefinite-length item")

	// ErrInvalidKey: a map key that is not a text or byte string.
	ErrInvalidKey = errors.New("drisl: map key must be text or bytes")

	// ErrInvalidLink: tag 42 content that is not a byte string with a
	// leading zero multibase prefix.
	ErrInvalidLink = errors.New("drisl: malformed link")

	// ErrDuplicateKey: reported by Encode when a map holds two entries
	// with the same key.
	ErrDuplicateKey = errors.New("drisl: duplicate map key")
)

// DecodeError wraps a decode failure with the byte offset the cursor
// had consumed when the failure was detected.
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v (at byte %d)", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Err }
